// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postsrs realizes the posts resource, allowing the post
// management REST APIs to be accepted and delegated to the posts
// use cases respectively.
package postsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/wikisvc/wikiweb/pkg/adapter/restful/gin/serdser"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/postsuc"
)

type resource struct {
	posts *postsuc.UseCase
}

// Register instantiates a resource adapting the posts use case
// instance with the relevant REST APIs including:
//  1. POST request to /posts/ in order to create a post,
//  2. GET request to /posts/:pid in order to fetch one post,
//  3. GET request to /posts/ in order to list posts page by page,
//  4. PATCH request to /posts/:pid in order to update a post,
//  5. DELETE request to /posts/:pid in order to delete a post.
func Register(r *gin.RouterGroup, posts *postsuc.UseCase) {
	rs := &resource{posts: posts}
	r.POST("posts/", rs.CreatePost)
	r.GET("posts/:pid", rs.GetPost)
	r.GET("posts/", rs.ListPosts)
	r.PATCH("posts/:pid", rs.UpdatePost)
	r.DELETE("posts/:pid", rs.DeletePost)
}

func (rs *resource) CreatePost(c *gin.Context) {
	req := &postCreateReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	post, err := rs.posts.Create(c, req.Title, req.Content, req.AuthorID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, SerPost(post))
}

func (rs *resource) GetPost(c *gin.Context) {
	uri := &postUriReq{}
	if ok := serdser.BindUri(c, uri); !ok {
		return
	}
	post, err := rs.posts.GetByID(c, uri.PostID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerPost(post))
}

func (rs *resource) ListPosts(c *gin.Context) {
	q := &listReq{}
	if ok := serdser.Bind(c, q, binding.Query); !ok {
		return
	}
	posts, err := rs.posts.List(c, q.Skip, q.Limit)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerPosts(posts))
}

func (rs *resource) UpdatePost(c *gin.Context) {
	uri := &postUriReq{}
	if ok := serdser.BindUri(c, uri); !ok {
		return
	}
	req := &postPatchReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	post, err := rs.posts.Update(c, uri.PostID, req.ToModel())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerPost(post))
}

func (rs *resource) DeletePost(c *gin.Context) {
	uri := &postUriReq{}
	if ok := serdser.BindUri(c, uri); !ok {
		return
	}
	if err := rs.posts.Delete(c, uri.PostID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
