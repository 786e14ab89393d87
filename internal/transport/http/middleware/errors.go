package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orgdesk/pkg/apperrors"
)

// ErrorSink 统一错误出口：handler 只管 c.Error(err)，
// 这里按错误类别映射状态码，序列化成 {"message": ...}。
// 内部错误的原因只进日志，不回给客户端。
func ErrorSink(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperrors.Status(err)
		if status >= 500 {
			l.Error("request failed",
				zap.String("rid", c.GetString(KeyRequestID)),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		c.JSON(status, gin.H{"message": apperrors.Message(err)})
	}
}
