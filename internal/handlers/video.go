package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CompressVideo re-encodes a video with H.264 at a caller-chosen quality
// factor (0-100, higher means better quality; default 50). The factor maps
// linearly onto the encoder's CRF range 18-38.
//
// POST /api/video/compress  multipart field "video", form "quality"
func (h *Handler) CompressVideo(c *gin.Context) {
	quality := 50
	if raw := c.PostForm("quality"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			h.badRequest(c, "quality must be an integer between 0 and 100")
			return
		}
		quality = v
	}
	crf := 38 - quality*20/100

	up, ok := h.acceptUpload(c, "video", videoFile)
	if !ok {
		return
	}
	defer up.Release()

	resultPath := h.WS.ResultPath("mp4")
	if err := h.Video.Transcode(c.Request.Context(), up.Path, resultPath, crf); err != nil {
		h.internalError(c, err, "video transcoding failed")
		return
	}

	h.publish(c, resultPath, true)
}
