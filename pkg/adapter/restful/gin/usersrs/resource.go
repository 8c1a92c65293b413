// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrs realizes the users resource, allowing the user
// management REST APIs to be accepted and delegated to the users
// use cases respectively.
package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/wikisvc/wikiweb/pkg/adapter/restful/gin/serdser"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/usersuc"
)

type resource struct {
	users *usersuc.UseCase
}

// Register instantiates a resource adapting the users use case
// instance with the relevant REST APIs including:
//  1. POST request to /users/ in order to create a user,
//  2. GET request to /users/:uid in order to fetch one user,
//  3. GET request to /users/ in order to list users page by page,
//  4. PATCH request to /users/:uid in order to update a user,
//  5. DELETE request to /users/:uid in order to delete a user.
func Register(r *gin.RouterGroup, users *usersuc.UseCase) {
	rs := &resource{users: users}
	r.POST("users/", rs.CreateUser)
	r.GET("users/:uid", rs.GetUser)
	r.GET("users/", rs.ListUsers)
	r.PATCH("users/:uid", rs.UpdateUser)
	r.DELETE("users/:uid", rs.DeleteUser)
}

func (rs *resource) CreateUser(c *gin.Context) {
	req := &userCreateReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	user, err := rs.users.Create(c, req.Username, req.Email)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, SerUser(user))
}

func (rs *resource) GetUser(c *gin.Context) {
	uri := &userUriReq{}
	if ok := serdser.BindUri(c, uri); !ok {
		return
	}
	user, err := rs.users.GetByID(c, uri.UserID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerUser(user))
}

func (rs *resource) ListUsers(c *gin.Context) {
	q := &listReq{}
	if ok := serdser.Bind(c, q, binding.Query); !ok {
		return
	}
	users, err := rs.users.List(c, q.Skip, q.Limit)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerUsers(users))
}

func (rs *resource) UpdateUser(c *gin.Context) {
	uri := &userUriReq{}
	if ok := serdser.BindUri(c, uri); !ok {
		return
	}
	req := &userPatchReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	user, err := rs.users.Update(c, uri.UserID, req.ToModel())
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SerUser(user))
}

func (rs *resource) DeleteUser(c *gin.Context) {
	uri := &userUriReq{}
	if ok := serdser.BindUri(c, uri); !ok {
		return
	}
	if err := rs.users.Delete(c, uri.UserID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
