package model

import (
	"time"

	"github.com/ekisa-team/perfpredict/internal/backend"
)

// ModelStatus is the current loading status of a model.
type ModelStatus string

const (
	// ModelStatusUnloaded indicates that the model is not loaded.
	ModelStatusUnloaded ModelStatus = "unloaded"

	// ModelStatusLoaded indicates that the model is loaded.
	ModelStatusLoaded ModelStatus = "loaded"
)

// Instance describes the loaded model artifact. It never changes after Load.
type Instance struct {
	LoadedAt time.Time               `json:"loaded_at"`
	ID       string                  `json:"id"`
	Path     string                  `json:"path"`
	Digest   string                  `json:"sha256"`
	Provider backend.BackendProvider `json:"provider"`
	Status   ModelStatus             `json:"status"`
	Features []string                `json:"features,omitempty"`
}
