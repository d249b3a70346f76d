package util

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/db"
)

type HTTPError struct {
	Status  int
	Message string
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var (
	DbHTTPErr = HTTPError{
		Message: "database error",
		Status:  http.StatusInternalServerError,
	}
	MalformedIdHTTPErr = HTTPError{
		Message: "id malformed",
		Status:  http.StatusBadRequest,
	}
	NotFoundHTTPErr = HTTPError{
		Message: "not found",
		Status:  http.StatusNotFound,
	}
)

// BuildDbHTTPErr maps storage errors: missing rows become 404, duplicates 409, anything else 500.
func BuildDbHTTPErr(err error) *HTTPError {
	if db.IsNotFound(err) {
		httpErr := NotFoundHTTPErr
		return &httpErr
	}
	if db.IsDupKeyErr(err) {
		message := "already exists"
		if key := db.GetDupKey(err); key != "" {
			message = fmt.Sprintf("already exists (%v)", key)
		}
		return &HTTPError{Status: http.StatusConflict, Message: message}
	}
	log.Println("database error occurred", err)
	httpErr := DbHTTPErr
	return &httpErr
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: err.Error(),
	}
}

/*
	HandleHTTPErrorRes handles creating the appropriate response for the HTTP error.
	break the route after calling this function
*/
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	c.JSON(err.Status, gin.H{
		"success": false,
		"message": err.Message,
	})
}
