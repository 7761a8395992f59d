// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// ImageTaggingTask represents the data structure for an image auto-tagging job.
type ImageTaggingTask struct {
	ImageID    uint   `json:"image_id"`
	ObjectName string `json:"object_name"`
	Prompt     string `json:"prompt"`
	UserID     uint   `json:"user_id"`
}
