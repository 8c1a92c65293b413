package postsrs

import (
	"github.com/wikisvc/wikiweb/pkg/core/model"
)

type postCreateReq struct {
	Title string `json:"title" binding:"required"`
	// Content may be an empty string, hence, it carries no required
	// binding (the required tag fails on zero values).
	Content  string `json:"content"`
	AuthorID int64  `json:"author_id" binding:"required"`
}

type postPatchReq struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// ToModel converts the bound patch request into its domain patch
// counterpart. Semantic checks, like rejecting an all-nil patch, are
// the use case responsibility, not a transport concern.
func (r *postPatchReq) ToModel() model.PostPatch {
	return model.PostPatch{
		Title:   r.Title,
		Content: r.Content,
	}
}

type postUriReq struct {
	// PostID carries no binding tag deliberately: an absent row for
	// any syntactically valid number, including zero, must surface as
	// a not-found outcome instead of a binding failure.
	PostID int64 `uri:"pid"`
}

type listReq struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}

type postRes struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID int64  `json:"author_id"`
}

func SerPost(p *model.Post) postRes {
	return postRes{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		AuthorID: p.AuthorID,
	}
}

func SerPosts(ps []model.Post) []postRes {
	res := make([]postRes, len(ps))
	for i := range ps {
		res[i] = SerPost(&ps[i])
	}
	return res
}
