package model

import (
	"fmt"
	"strings"
	"time"
)

// Attachment is a file stored against a task. FileRef is the opaque
// reference returned by the blob store at upload time; Filename keeps
// the original name for display.
type Attachment struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	FileRef   string    `json:"file_ref" db:"file_ref"`
	Filename  string    `json:"filename" db:"filename"`
	Size      int64     `json:"size" db:"size"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SizeDisplay renders the byte size in a human-readable unit.
func (a Attachment) SizeDisplay() string {
	return FormatSize(a.Size)
}

// Icon returns the icon class for the attachment's file type.
func (a Attachment) Icon() string {
	return FileIcon(a.Filename)
}

// FormatSize scales a byte count through B, KB, MB, GB, TB by repeated
// division by 1024, rendering one decimal place for every unit except
// whole bytes.
func FormatSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	v := float64(size)
	for _, unit := range []string{"KB", "MB", "GB"} {
		v /= 1024
		if v < 1024 {
			return fmt.Sprintf("%.1f %s", v, unit)
		}
	}
	return fmt.Sprintf("%.1f TB", v/1024)
}

var fileIcons = map[string]string{
	"pdf":  "ri-file-pdf-line",
	"doc":  "ri-file-word-line",
	"docx": "ri-file-word-line",
	"xls":  "ri-file-excel-line",
	"xlsx": "ri-file-excel-line",
	"ppt":  "ri-file-ppt-line",
	"pptx": "ri-file-ppt-line",
	"zip":  "ri-file-zip-line",
	"rar":  "ri-file-zip-line",
	"7z":   "ri-file-zip-line",
	"jpg":  "ri-image-line",
	"jpeg": "ri-image-line",
	"png":  "ri-image-line",
	"gif":  "ri-image-line",
	"webp": "ri-image-line",
	"svg":  "ri-image-line",
	"mp3":  "ri-music-line",
	"wav":  "ri-music-line",
	"mp4":  "ri-video-line",
	"avi":  "ri-video-line",
	"mov":  "ri-video-line",
	"txt":  "ri-file-text-line",
	"md":   "ri-markdown-line",
	"py":   "ri-code-line",
	"js":   "ri-code-line",
	"html": "ri-code-line",
	"css":  "ri-code-line",
	"json": "ri-code-line",
}

// FileIcon maps a filename's extension to an icon class, falling back
// to a generic file icon for missing or unrecognized extensions.
func FileIcon(filename string) string {
	ext := ""
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		ext = strings.ToLower(filename[i+1:])
	}
	if icon, ok := fileIcons[ext]; ok {
		return icon
	}
	return "ri-file-line"
}
