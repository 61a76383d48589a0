package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"food-donation-api-server/internal/api/middleware"
	"food-donation-api-server/internal/store"
)

// currentUserID pulls the authenticated user's ObjectID out of the request
// context. Aborts with 401 when the identity is missing or malformed.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// objectIDParam parses a path parameter as an ObjectID, answering 400 on a
// malformed value.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// parsePage reads the {page, limit} query contract shared by every paginated
// endpoint.
func parsePage(c *gin.Context) store.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return store.Page{Number: page, PerPage: limit}.Normalize()
}

// paginationBody builds the shared pagination envelope.
func paginationBody(total int64, page store.Page) gin.H {
	return gin.H{
		"total":   total,
		"pages":   int(math.Ceil(float64(total) / float64(page.PerPage))),
		"current": page.Number,
		"perPage": page.PerPage,
	}
}

// serverError logs the cause with request context and answers a generic 500
// body. Clients never see internal detail.
func serverError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	log.Error().
		Err(err).
		Str("requestId", c.GetString(middleware.CtxRequestID)).
		Str("path", c.Request.URL.Path).
		Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
