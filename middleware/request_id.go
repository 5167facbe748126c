package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID 为每个请求分配 request id，客户端传入时沿用
func RequestID(ctx *gin.Context) {
	requestID := ctx.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	ctx.Set(RequestIDHeader, requestID)
	ctx.Header(RequestIDHeader, requestID)
	ctx.Next()
}
