package postapp

import (
	"context"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	postEntity "mediafeed/internal/core/post"
	feedcachePort "mediafeed/internal/ports/feedcache"
	postPort "mediafeed/internal/ports/post"
	storagePort "mediafeed/internal/ports/storage"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// maxStoredExtLen bounds the extension (dot included) carried over from the
// client filename into the stored name. Longer suffixes are dropped.
const maxStoredExtLen = 10

const publicUploadPrefix = "/uploads/"

type PostService struct {
	PostRepository postPort.PostRepository
	FileStore      storagePort.FileStore
	FeedCache      feedcachePort.FeedCache // optional, nil disables caching
	logger         *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	store storagePort.FileStore,
	cache feedcachePort.FeedCache,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository: postRepo,
		FileStore:      store,
		FeedCache:      cache,
		logger:         logger,
	}
}

// CreatePost stores a validated upload and records its metadata. The file is
// written first; if the insert fails the file is removed again so a failed
// upload leaves neither a row nor an orphaned file behind.
func (s *PostService) CreatePost(ctx context.Context, caption, contentType, originalName string, data []byte) (*postPort.PostDTO, error) {
	storedName := buildStorageName(originalName)

	if err := s.FileStore.Save(storedName, data); err != nil {
		s.logger.Error("failed to write upload to storage", zap.String("file_name", storedName), zap.Error(err))
		return nil, fmt.Errorf("store upload: %w", err)
	}

	p := &postEntity.Post{
		ID:       uuid.Must(uuid.NewV4()),
		Caption:  normalizeCaption(caption),
		URL:      publicUploadPrefix + storedName,
		FileType: contentType,
		FileName: storedName,
	}

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		s.logger.Error("failed to persist upload metadata", zap.String("file_name", storedName), zap.Error(err))
		// Best-effort compensation: the delete is attempted once and a
		// failure leaves the orphan for manual reconciliation.
		if rmErr := s.FileStore.Remove(storedName); rmErr != nil {
			s.logger.Error("failed to remove orphaned upload", zap.String("file_name", storedName), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("persist upload metadata: %w", err)
	}

	s.invalidateTotal(ctx)

	return postPort.ToDTO(created), nil
}

// GetFeed returns one newest-first page plus the table-wide total count.
func (s *PostService) GetFeed(ctx context.Context, limit, offset int) (*postPort.FeedDTO, error) {
	posts, err := s.PostRepository.ListNewest(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to fetch feed page", zap.Int("limit", limit), zap.Int("offset", offset), zap.Error(err))
		return nil, fmt.Errorf("fetch feed page: %w", err)
	}

	total, err := s.totalPosts(ctx)
	if err != nil {
		s.logger.Error("failed to count posts", zap.Error(err))
		return nil, fmt.Errorf("count posts: %w", err)
	}

	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, postPort.ToDTO(p))
	}

	return &postPort.FeedDTO{
		Posts:  dtos,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}, nil
}

// totalPosts serves the count from the cache when it is warm. A cache
// failure only costs the extra COUNT query, it never fails the request.
func (s *PostService) totalPosts(ctx context.Context) (int64, error) {
	if s.FeedCache != nil {
		total, ok, err := s.FeedCache.GetTotal(ctx)
		if err != nil {
			s.logger.Warn("feed cache read failed", zap.Error(err))
		} else if ok {
			return total, nil
		}
	}

	total, err := s.PostRepository.CountAll(ctx)
	if err != nil {
		return 0, err
	}

	if s.FeedCache != nil {
		if err := s.FeedCache.SetTotal(ctx, total); err != nil {
			s.logger.Warn("feed cache write failed", zap.Error(err))
		}
	}

	return total, nil
}

func (s *PostService) invalidateTotal(ctx context.Context) {
	if s.FeedCache == nil {
		return
	}
	if err := s.FeedCache.Invalidate(ctx); err != nil {
		s.logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
}

// buildStorageName derives the on-disk name for an upload: a fresh random
// token plus the client extension, lower-cased and kept only when short.
// The client filename itself is never persisted.
func buildStorageName(originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	if len(ext) > maxStoredExtLen {
		ext = ""
	}

	token := hex.EncodeToString(uuid.Must(uuid.NewV4()).Bytes())
	return token + ext
}

func normalizeCaption(caption string) *string {
	trimmed := strings.TrimSpace(caption)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
