package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nvoropaev/scope/internal/model"
	"github.com/nvoropaev/scope/internal/store"
	"github.com/nvoropaev/scope/tests/testutil"
)

func TestNoteCRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	taskID := newTaskID(t, s)

	note, err := s.AddNote(ctx, model.Note{TaskID: taskID, Content: "remember the milk"})
	if err != nil {
		t.Fatalf("add note: %v", err)
	}

	note.Content = "remember the oat milk"
	if err := s.UpdateNote(ctx, *note); err != nil {
		t.Fatalf("update note: %v", err)
	}

	notes, err := s.GetNotesForTask(ctx, taskID)
	if err != nil {
		t.Fatalf("get notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "remember the oat milk" {
		t.Fatalf("unexpected notes: %+v", notes)
	}

	if err := s.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if err := s.DeleteNote(ctx, note.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLinkCRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	taskID := newTaskID(t, s)

	link, err := s.AddLink(ctx, model.Link{TaskID: taskID, URL: "https://example.com", Title: "Example"})
	if err != nil {
		t.Fatalf("add link: %v", err)
	}

	links, err := s.GetLinksForTask(ctx, taskID)
	if err != nil {
		t.Fatalf("get links: %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://example.com" {
		t.Fatalf("unexpected links: %+v", links)
	}

	if err := s.DeleteLink(ctx, link.ID); err != nil {
		t.Fatalf("delete link: %v", err)
	}
	if err := s.DeleteLink(ctx, link.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAttachmentReturnsRef(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	taskID := newTaskID(t, s)

	att, err := s.AddAttachment(ctx, model.Attachment{
		TaskID:   taskID,
		FileRef:  "attachments/2026/03/c.txt",
		Filename: "c.txt",
		Size:     42,
	})
	if err != nil {
		t.Fatalf("add attachment: %v", err)
	}

	ref, err := s.DeleteAttachment(ctx, att.ID)
	if err != nil {
		t.Fatalf("delete attachment: %v", err)
	}
	if ref != "attachments/2026/03/c.txt" {
		t.Fatalf("unexpected ref: %q", ref)
	}

	if _, err := s.DeleteAttachment(ctx, att.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	atts, err := s.GetAttachmentsForTask(ctx, taskID)
	if err != nil {
		t.Fatalf("get attachments: %v", err)
	}
	if len(atts) != 0 {
		t.Fatalf("attachment record survived delete: %+v", atts)
	}
}
