package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// resource describes an admin CRUD collection. Req is the JSON body accepted
// by create and update, Item the stored record and V the rendered view.
type resource[Req, Item, V any] struct {
	singular string
	plural   string
	view     func(Item) V

	list    func(ctx context.Context) ([]Item, error)
	get     func(ctx context.Context, id uint) (*Item, error)
	create  func(ctx context.Context, req Req) (*Item, error)
	update  func(ctx context.Context, id uint, req Req) (*Item, error)
	delete  func(ctx context.Context, id uint) error
	reorder func(ctx context.Context, ids []uint) error
}

type reorderRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// registerResource mounts list/get/create/update/delete (and reorder when
// supported) under group.
func registerResource[Req, Item, V any](group *gin.RouterGroup, path string, res resource[Req, Item, V]) {
	notFound := res.singular + " not found"
	routes := group.Group(path)

	if res.list != nil {
		routes.GET("", func(c *gin.Context) {
			items, err := res.list(c.Request.Context())
			if err != nil {
				handleServiceError(c, err, notFound)
				return
			}
			c.JSON(http.StatusOK, gin.H{res.plural: mapViews(items, res.view)})
		})
	}

	if res.reorder != nil {
		routes.PUT("/reorder", func(c *gin.Context) {
			var payload reorderRequest
			if !bindJSON(c, &payload, "ids are required") {
				return
			}
			if err := res.reorder(c.Request.Context(), payload.IDs); err != nil {
				handleServiceError(c, err, notFound)
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "order updated"})
		})
	}

	routes.GET("/:id", func(c *gin.Context) {
		id, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}
		item, err := res.get(c.Request.Context(), id)
		if err != nil {
			handleServiceError(c, err, notFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{res.singular: res.view(*item)})
	})

	routes.POST("", func(c *gin.Context) {
		var payload Req
		if !bindJSON(c, &payload, "invalid "+res.singular+" payload") {
			return
		}
		item, err := res.create(c.Request.Context(), payload)
		if err != nil {
			handleServiceError(c, err, notFound)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":    res.singular + " created",
			res.singular: res.view(*item),
		})
	})

	routes.PUT("/:id", func(c *gin.Context) {
		id, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}
		var payload Req
		if !bindJSON(c, &payload, "invalid "+res.singular+" payload") {
			return
		}
		item, err := res.update(c.Request.Context(), id, payload)
		if err != nil {
			handleServiceError(c, err, notFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    res.singular + " updated",
			res.singular: res.view(*item),
		})
	})

	routes.DELETE("/:id", func(c *gin.Context) {
		id, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}
		if err := res.delete(c.Request.Context(), id); err != nil {
			handleServiceError(c, err, notFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": res.singular + " deleted"})
	})
}
