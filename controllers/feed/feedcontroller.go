package feed

import (
	"net/http"

	"SIABSEN/controllers/respond"
	"SIABSEN/feed"

	"github.com/gin-gonic/gin"
)

// Struct untuk frame dari perangkat. Faces boleh kosong (heartbeat).
type FramePayload struct {
	Faces [][]float64 `json:"faces"`
}

// PushFrameHandler menerima descriptor hasil deteksi di perangkat.
// Response camera_open memberi tahu perangkat apakah harus terus streaming.
func PushFrameHandler(f *feed.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload FramePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Frame tidak valid: " + err.Error()})
			return
		}

		open, err := f.Push(payload.Faces)
		if err != nil {
			c.JSON(respond.Status(err), gin.H{"error": err.Error(), "camera_open": open})
			return
		}
		c.JSON(http.StatusOK, gin.H{"camera_open": open})
	}
}

// HeartbeatHandler dipanggil perangkat saat idle supaya kamera bisa dibuka.
func HeartbeatHandler(f *feed.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"camera_open": f.Heartbeat()})
	}
}

func FeedStatusHandler(f *feed.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, f.Stats())
	}
}
