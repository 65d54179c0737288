package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter labels.
const (
	FileUploaded        = "file_uploaded_total"
	FileUploadRejected  = "file_upload_rejected_total"
	FileDeleted         = "file_deleted_total"
	OrphanCleanupFailed = "orphan_cleanup_failed_total"
	StorageMissing      = "storage_missing_total"
	StorageRemoveFailed = "storage_remove_failed_total"
	UserRegistered      = "user_registered_total"
	LoginFailed         = "login_failed_total"
	EventPublishDropped = "event_publish_dropped_total"
)

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minidrive",
			Name:      "general_counters",
		},
		[]string{"result"})
}
