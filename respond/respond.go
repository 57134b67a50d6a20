// Package respond builds the uniform response envelope used by every
// endpoint: { success, data?, count?, error?, message? }.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adrianfredes10/tienda-api/apperr"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// List responds with data plus its element count.
func List(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Message responds with data and a human-readable message.
func Message(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Err maps err through the taxonomy to a status code and emits the failure
// envelope. Internal errors are logged and their detail hidden from clients.
func Err(c *gin.Context, err error) {
	status := apperr.Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		msg = "error del servidor"
	}
	c.JSON(status, Envelope{Success: false, Error: msg})
}

// AbortErr is Err for middleware: it also stops the handler chain.
func AbortErr(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.Status(err), Envelope{Success: false, Error: err.Error()})
}
