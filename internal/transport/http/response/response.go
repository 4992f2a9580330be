package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK 列表/单体按资源自身形态返回
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 写入成功统一 {success, data} 信封
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}
