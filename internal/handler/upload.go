package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
)

type uploadFile struct {
	Reader   multipart.File
	FileName string
}

func (u *uploadFile) Close() {
	_ = u.Reader.Close()
}

// readUpload pulls an optional multipart file off the request. A missing or
// unreadable file is treated as no upload.
func readUpload(c *gin.Context, field string) *uploadFile {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader == nil {
		return nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil
	}
	return &uploadFile{Reader: file, FileName: fileHeader.Filename}
}
