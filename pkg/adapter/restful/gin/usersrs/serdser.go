package usersrs

import (
	"github.com/wikisvc/wikiweb/pkg/core/model"
)

type userCreateReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

type userPatchReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// ToModel converts the bound patch request into its domain patch
// counterpart. Semantic checks, like rejecting an all-nil patch, are
// the use case responsibility, not a transport concern.
func (r *userPatchReq) ToModel() model.UserPatch {
	return model.UserPatch{
		Username: r.Username,
		Email:    r.Email,
	}
}

type userUriReq struct {
	// UserID carries no binding tag deliberately: an absent row for
	// any syntactically valid number, including zero, must surface as
	// a not-found outcome instead of a binding failure.
	UserID int64 `uri:"uid"`
}

type listReq struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}

type userRes struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func SerUser(u *model.User) userRes {
	return userRes{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

func SerUsers(us []model.User) []userRes {
	res := make([]userRes, len(us))
	for i := range us {
		res[i] = SerUser(&us[i])
	}
	return res
}
