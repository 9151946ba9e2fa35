package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitecms/internal/service"
)

// multipartOverhead 为表单边界等额外字节预留的空间。
const multipartOverhead = 1 << 20

type assetAltRequest struct {
	Alt string `json:"alt"`
}

// ListAssets 分页返回上传的文件。
func (a *API) ListAssets(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.Query("perPage"), 0)

	result, err := a.services.Assets.List(c.Request.Context(), page, perPage)
	if err != nil {
		handleServiceError(c, err, "asset not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadAsset 处理 multipart 上传，字段名为 file。
func (a *API) UploadAsset(c *gin.Context) {
	maxBytes := a.services.Assets.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		respondError(c, http.StatusBadRequest, "missing upload field \"file\"")
		return
	}
	if header.Size > maxBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file is too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer file.Close()

	asset, err := a.services.Assets.Store(c.Request.Context(), service.UploadedFile{
		Name:   header.Filename,
		Reader: file,
	})
	switch {
	case errors.Is(err, service.ErrAssetTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, service.ErrAssetTypeNotAllowed):
		respondError(c, http.StatusUnsupportedMediaType, err.Error())
		return
	case errors.Is(err, service.ErrAssetEmpty):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		handleServiceError(c, err, "asset not found")
		return
	}

	resp := gin.H{
		"message": "upload succeeded",
		"asset":   asset,
		"url":     asset.URL,
	}
	if a.baseURL != "" {
		resp["absoluteUrl"] = a.baseURL + asset.URL
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateAsset 修改替代文本。
func (a *API) UpdateAsset(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	var payload assetAltRequest
	if !bindJSON(c, &payload, "invalid asset payload") {
		return
	}
	asset, err := a.services.Assets.UpdateAlt(c.Request.Context(), id, payload.Alt)
	if err != nil {
		handleServiceError(c, err, "asset not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asset updated", "asset": asset})
}

// DeleteAsset 删除记录和磁盘文件。
func (a *API) DeleteAsset(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	if err := a.services.Assets.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, "asset not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asset deleted"})
}
