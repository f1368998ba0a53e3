package domain

import "time"

type Document struct {
	ID         string    `json:"id"`
	LessonID   string    `json:"lesson_id"`
	Filename   string    `json:"filename"`
	FilePath   string    `json:"file_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}
