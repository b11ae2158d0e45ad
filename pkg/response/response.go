package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the envelope of every JSON response.
type Body struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
	Msg  string      `json:"msg"`
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data, "")
}

func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, "created")
}

func Error(c *gin.Context, status int, msg string) {
	JSON(c, status, nil, msg)
}

// Fail writes err with the given status.
func Fail(c *gin.Context, status int, err error) {
	Error(c, status, err.Error())
}

func JSON(c *gin.Context, status int, data interface{}, msg string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Body{Code: status, Data: data, Msg: msg})
}
