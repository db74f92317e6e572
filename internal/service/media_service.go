package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Upload is a file received from a client.
type Upload struct {
	Name    string
	Data    []byte
	Caption string
}

type MediaService interface {
	List(ctx context.Context, kind string, page transfer.Page) ([]*models.MediaAsset, error)
	Upload(ctx context.Context, actor Actor, kind string, upload Upload) (*models.MediaAsset, error)
	Remove(ctx context.Context, actor Actor, kind string, id int64) error
}

type mediaService struct {
	ma      repository.MediaAssetRepository
	storage ObjectStorage
	al      ActivityService
}

func NewMediaService(ma repository.MediaAssetRepository, storage ObjectStorage, al ActivityService) MediaService {
	return &mediaService{ma: ma, storage: storage, al: al}
}

var allowedTypes = map[string]map[string]struct{}{
	models.MediaKindGallery: {
		"jpg": {}, "png": {}, "gif": {}, "webp": {}, "mp4": {}, "mov": {},
	},
	models.MediaKindMedia: {
		"jpg": {}, "png": {}, "gif": {}, "webp": {}, "mp4": {}, "mov": {}, "webm": {},
		"mp3": {}, "m4a": {}, "wav": {}, "pdf": {},
	},
}

func kindResource(kind string) models.Resource {
	if kind == models.MediaKindGallery {
		return models.ResourceGallery
	}
	return models.ResourceMedia
}

func (s *mediaService) List(ctx context.Context, kind string, page transfer.Page) ([]*models.MediaAsset, error) {
	return s.ma.ListByKind(ctx, kind, page)
}

func (s *mediaService) Upload(ctx context.Context, actor Actor, kind string, upload Upload) (*models.MediaAsset, error) {
	allowed, ok := allowedTypes[kind]
	if !ok {
		return nil, invalid("kind", "unknown media kind")
	}
	if len(upload.Data) == 0 {
		return nil, invalid("file", "is empty")
	}

	fileType, err := filetype.Match(upload.Data)
	if err != nil || fileType == types.Unknown {
		return nil, invalid("file", "unsupported file type")
	}
	if _, ok := allowed[fileType.Extension]; !ok {
		return nil, invalid("file", fmt.Sprintf("file type %s is not allowed", fileType.Extension))
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%s.%s", kind, id, fileType.Extension)

	if err := s.storage.Put(ctx, key, upload.Data, fileType.MIME.Value); err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	asset := &models.MediaAsset{
		Kind:       kind,
		FileName:   key,
		FileType:   fileType.MIME.Value,
		FileSize:   int64(len(upload.Data)),
		FileURL:    s.storage.URL(key),
		Caption:    strings.TrimSpace(upload.Caption),
		UploadedBy: ptr(actor.UserID),
	}
	assetID, err := s.ma.Create(ctx, asset)
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			slog.Error("failed to remove orphaned upload", "key", key, "error", delErr)
		}
		return nil, err
	}
	asset.ID = assetID

	s.al.Log(ctx, actor, models.ActionCreate, kindResource(kind), assetID,
		models.Details{"file": upload.Name, "type": asset.FileType, "size": asset.FileSize})
	return s.ma.GetByID(ctx, assetID)
}

func (s *mediaService) Remove(ctx context.Context, actor Actor, kind string, id int64) error {
	asset, err := s.ma.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if asset == nil || asset.Kind != kind {
		return ErrNotFound
	}

	if err := s.storage.Delete(ctx, asset.FileName); err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}
	if err := s.ma.Remove(ctx, id); err != nil {
		return err
	}

	s.al.Log(ctx, actor, models.ActionDelete, kindResource(kind), id, models.Details{"file": asset.FileName})
	return nil
}
