package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-bracket/models"
	"github.com/gosimple/slug"
)

const snapshotContentType = "application/json"

// Snapshot is the archived form of a bracket.
type Snapshot struct {
	Tournament *models.Tournament `json:"tournament"`
	Bracket    *models.Bracket    `json:"bracket"`
	ArchivedAt time.Time          `json:"archived_at"`
}

// BracketArchiver uploads bracket snapshots through a FileUploader.
type BracketArchiver struct {
	uploader FileUploader
	now      func() time.Time
}

func NewBracketArchiver(uploader FileUploader) *BracketArchiver {
	return &BracketArchiver{uploader: uploader, now: time.Now}
}

// SnapshotKey returns tournaments/{slug}/brackets/{bracketID}.json.
func SnapshotKey(tournament *models.Tournament, bracket *models.Bracket) string {
	name := slug.Make(tournament.Name)
	if name == "" {
		name = tournament.ID.String()
	}
	return fmt.Sprintf("tournaments/%s/brackets/%s.json", name, bracket.ID)
}

// Archive uploads the snapshot and returns its public location.
func (a *BracketArchiver) Archive(ctx context.Context, tournament *models.Tournament, bracket *models.Bracket) (string, error) {
	if tournament == nil || bracket == nil {
		return "", errors.New("archive: tournament and bracket are required")
	}

	body, err := json.Marshal(Snapshot{
		Tournament: tournament,
		Bracket:    bracket,
		ArchivedAt: a.now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode bracket snapshot: %w", err)
	}

	result, err := a.uploader.Upload(ctx, SnapshotKey(tournament, bracket), snapshotContentType, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if result.Location != "" {
		return result.Location, nil
	}
	return result.Key, nil
}
