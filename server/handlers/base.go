package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Dumessi/pricing-agent-ocr/server/errors"
)

// writeError 统一错误响应：AppError 按其状态码输出，
// 其余错误按 500 输出通用消息，细节只进日志
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			log.Printf("请求失败 %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr.Err)
		}
		c.JSON(appErr.StatusCode(), gin.H{"message": appErr.Message})
		return
	}

	log.Printf("请求失败 %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "服务器内部错误"})
}
