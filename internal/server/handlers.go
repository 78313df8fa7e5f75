package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opticnerve/internal/retina"
)

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse はシステム状態のレスポンス
type StatusResponse struct {
	Status    string       `json:"status"`
	Server    ServerInfo   `json:"server"`
	Retina    RetinaStatus `json:"retina"`
	Timestamp time.Time    `json:"timestamp"`
}

// ServerInfo はサーバー情報
type ServerInfo struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// RetinaStatus はセンサー状態（間隔は秒単位で表現する）
type RetinaStatus struct {
	Running                  bool    `json:"running"`
	DeviceIndex              int     `json:"device_index"`
	BaseIntervalSeconds      float64 `json:"base_interval"`
	EffectiveIntervalSeconds float64 `json:"effective_interval"`
	Hibernating              bool    `json:"hibernating"`
	DeviceError              bool    `json:"device_error"`
}

// IntervalRequest はキャプチャ間隔変更のリクエスト
// 0.0は「ティックループが許す最速でキャプチャ」を意味する
type IntervalRequest struct {
	IntervalSeconds *float64 `json:"interval_seconds" binding:"required"`
}

// IntervalResponse はキャプチャ間隔変更のレスポンス
type IntervalResponse struct {
	Message         string    `json:"message"`
	IntervalSeconds float64   `json:"interval_seconds"`
	Timestamp       time.Time `json:"timestamp"`
}

// ErrorResponse はエラーレスポンス
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth はヘルスチェックエンドポイントの実装
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// handleStatus はシステム状態取得エンドポイントの実装
func (s *Server) handleStatus(c *gin.Context) {
	st := s.sensor.GetStatus()

	c.JSON(http.StatusOK, StatusResponse{
		Status: "running",
		Server: ServerInfo{
			Host: s.config.Server.Host,
			Port: s.config.Server.Port,
		},
		Retina: RetinaStatus{
			Running:                  st.Running,
			DeviceIndex:              st.DeviceIndex,
			BaseIntervalSeconds:      st.BaseInterval.Seconds(),
			EffectiveIntervalSeconds: st.EffectiveInterval.Seconds(),
			Hibernating:              st.Hibernating,
			DeviceError:              st.DeviceError,
		},
		Timestamp: time.Now(),
	})
}

// handleReadEye は最新観測の取得エンドポイントの実装
// エラー状態もデータとして返すため、常に200を返す
func (s *Server) handleReadEye(c *gin.Context) {
	c.JSON(http.StatusOK, s.sensor.GetVision())
}

// handleConfigureEye はキャプチャ間隔変更エンドポイントの実装
func (s *Server) handleConfigureEye(c *gin.Context) {
	var req IntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid_request",
			Message:   "interval_seconds を指定してください",
			Timestamp: time.Now(),
		})
		return
	}

	// 負値は0に切り上げて適用する
	applied := *req.IntervalSeconds
	if applied < 0 {
		applied = 0
	}
	s.sensor.SetInterval(time.Duration(applied * float64(time.Second)))

	c.JSON(http.StatusOK, IntervalResponse{
		Message:         "視覚センサーのキャプチャ間隔を調整しました",
		IntervalSeconds: applied,
		Timestamp:       time.Now(),
	})
}

// handleFrame は最新フレームを生のJPEGとして配信するエンドポイントの実装
func (s *Server) handleFrame(c *gin.Context) {
	vision := s.sensor.GetVision()

	switch vision.Status {
	case retina.StatusBlind:
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:     "camera_unavailable",
			Message:   vision.Error,
			Timestamp: time.Now(),
		})
	case retina.StatusDarkness:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:     "no_observation",
			Message:   vision.Message,
			Timestamp: time.Now(),
		})
	default:
		data, err := retina.DecodeObservationJPEG(vision.ImageBase64)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:     "decode_failed",
				Message:   err.Error(),
				Timestamp: time.Now(),
			})
			return
		}
		c.Data(http.StatusOK, "image/jpeg", data)
	}
}
