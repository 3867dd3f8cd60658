package postapp

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	postEntity "mediafeed/internal/core/post"

	"go.uber.org/zap"
)

type fakeRepo struct {
	posts      []*postEntity.Post
	createErr  error
	countErr   error
	countCalls int
}

func (r *fakeRepo) Create(_ context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.posts = append(r.posts, p)
	return p, nil
}

func (r *fakeRepo) ListNewest(_ context.Context, limit, offset int) ([]*postEntity.Post, error) {
	sorted := make([]*postEntity.Post, len(r.posts))
	copy(sorted, r.posts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	if offset >= len(sorted) {
		return nil, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (r *fakeRepo) CountAll(_ context.Context) (int64, error) {
	r.countCalls++
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.posts)), nil
}

type fakeStore struct {
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string][]byte)}
}

func (s *fakeStore) Save(name string, data []byte) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[name] = data
	return nil
}

func (s *fakeStore) Remove(name string) error {
	delete(s.saved, name)
	s.removed = append(s.removed, name)
	return nil
}

type fakeCache struct {
	total       int64
	warm        bool
	getErr      error
	sets        []int64
	invalidated int
}

func (c *fakeCache) GetTotal(_ context.Context) (int64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	return c.total, c.warm, nil
}

func (c *fakeCache) SetTotal(_ context.Context, total int64) error {
	c.total = total
	c.warm = true
	c.sets = append(c.sets, total)
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.warm = false
	c.invalidated++
	return nil
}

func newService(repo *fakeRepo, store *fakeStore, cache *fakeCache) *PostService {
	if cache == nil {
		return NewPostService(repo, store, nil, zap.NewNop())
	}
	return NewPostService(repo, store, cache, zap.NewNop())
}

func TestBuildStorageName(t *testing.T) {
	cases := []struct {
		original string
		wantExt  string
	}{
		{"photo.jpg", ".jpg"},
		{"PHOTO.JPG", ".jpg"},
		{"archive.tar.gz", ".gz"},
		{"noextension", ""},
		{"", ""},
		{"evil.superlongsuffix", ""},
		{"weird.", "."},
	}
	for i, c := range cases {
		name := buildStorageName(c.original)
		if !strings.HasSuffix(name, c.wantExt) {
			t.Fatalf("case %d: name %q does not end in %q", i, name, c.wantExt)
		}
		token := strings.TrimSuffix(name, c.wantExt)
		if len(token) != 32 {
			t.Fatalf("case %d: token %q has length %d, want 32", i, token, len(token))
		}
	}

	if buildStorageName("a.jpg") == buildStorageName("a.jpg") {
		t.Fatal("expected two generated names to differ")
	}
}

func TestCreatePostWritesFileAndRow(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	svc := newService(repo, store, nil)

	dto, err := svc.CreatePost(context.Background(), "  sunset  ", "image/jpeg", "sunset.JPG", []byte("bytes"))
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if dto.Caption == nil || *dto.Caption != "sunset" {
		t.Fatalf("caption not trimmed: %+v", dto.Caption)
	}
	if dto.FileType != "image/jpeg" {
		t.Fatalf("file_type = %q", dto.FileType)
	}
	if !strings.HasPrefix(dto.URL, "/uploads/") {
		t.Fatalf("url = %q, want /uploads/ prefix", dto.URL)
	}
	if dto.URL != "/uploads/"+dto.FileName {
		t.Fatalf("url %q does not match file_name %q", dto.URL, dto.FileName)
	}
	if !strings.HasSuffix(dto.FileName, ".jpg") {
		t.Fatalf("file_name %q should keep the lower-cased extension", dto.FileName)
	}
	if _, ok := store.saved[dto.FileName]; !ok {
		t.Fatalf("no file stored under %q", dto.FileName)
	}
	if len(repo.posts) != 1 {
		t.Fatalf("expected 1 row, got %d", len(repo.posts))
	}
	if dto.CreatedAt.IsZero() {
		t.Fatal("created_at not assigned")
	}
}

func TestCreatePostNormalizesEmptyCaption(t *testing.T) {
	for _, caption := range []string{"", "   ", "\t\n"} {
		svc := newService(&fakeRepo{}, newFakeStore(), nil)
		dto, err := svc.CreatePost(context.Background(), caption, "image/png", "x.png", []byte("p"))
		if err != nil {
			t.Fatalf("CreatePost(%q): %v", caption, err)
		}
		if dto.Caption != nil {
			t.Fatalf("caption %q should normalize to nil, got %q", caption, *dto.Caption)
		}
	}
}

func TestCreatePostCompensatesOnInsertFailure(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("insert failed")}
	store := newFakeStore()
	cache := &fakeCache{warm: true, total: 3}
	svc := newService(repo, store, cache)

	_, err := svc.CreatePost(context.Background(), "c", "image/jpeg", "a.jpg", []byte("bytes"))
	if err == nil {
		t.Fatal("expected error")
	}

	if len(store.saved) != 0 {
		t.Fatalf("orphaned files left behind: %v", store.saved)
	}
	if len(store.removed) != 1 {
		t.Fatalf("expected exactly one compensating delete, got %d", len(store.removed))
	}
	if cache.invalidated != 0 {
		t.Fatal("cache must not be invalidated on a failed upload")
	}
}

func TestCreatePostDoesNotInsertOnStoreFailure(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	svc := newService(repo, store, nil)

	if _, err := svc.CreatePost(context.Background(), "c", "image/jpeg", "a.jpg", []byte("b")); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.posts) != 0 {
		t.Fatalf("no row should exist after a failed write, got %d", len(repo.posts))
	}
}

func TestCreatePostInvalidatesCache(t *testing.T) {
	cache := &fakeCache{warm: true, total: 7}
	svc := newService(&fakeRepo{}, newFakeStore(), cache)

	if _, err := svc.CreatePost(context.Background(), "c", "image/webp", "a.webp", []byte("b")); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("invalidations = %d, want 1", cache.invalidated)
	}
}

func TestGetFeedPagination(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	svc := newService(repo, store, nil)

	base := time.Now()
	for i := 0; i < 5; i++ {
		if _, err := svc.CreatePost(context.Background(), "c", "image/png", "x.png", []byte{byte(i)}); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
		repo.posts[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
	}

	cases := []struct {
		limit, offset, wantLen int
	}{
		{2, 0, 2},
		{2, 4, 1},
		{10, 0, 5},
		{3, 5, 0},
		{3, 99, 0},
	}
	for i, c := range cases {
		feed, err := svc.GetFeed(context.Background(), c.limit, c.offset)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if len(feed.Posts) != c.wantLen {
			t.Fatalf("case %d: got %d posts, want %d", i, len(feed.Posts), c.wantLen)
		}
		if feed.Total != 5 {
			t.Fatalf("case %d: total = %d, want 5", i, feed.Total)
		}
		if feed.Limit != c.limit || feed.Offset != c.offset {
			t.Fatalf("case %d: echoed limit/offset wrong: %d/%d", i, feed.Limit, feed.Offset)
		}
		for j := 1; j < len(feed.Posts); j++ {
			if feed.Posts[j].CreatedAt.After(feed.Posts[j-1].CreatedAt) {
				t.Fatalf("case %d: posts not newest-first", i)
			}
		}
	}
}

func TestGetFeedUsesWarmCache(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{warm: true, total: 42}
	svc := newService(repo, newFakeStore(), cache)

	feed, err := svc.GetFeed(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if feed.Total != 42 {
		t.Fatalf("total = %d, want cached 42", feed.Total)
	}
	if repo.countCalls != 0 {
		t.Fatalf("CountAll called %d times with a warm cache", repo.countCalls)
	}
}

func TestGetFeedFillsCacheOnMiss(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	svc := newService(repo, newFakeStore(), cache)

	if _, err := svc.CreatePost(context.Background(), "c", "image/png", "x.png", []byte("b")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	feed, err := svc.GetFeed(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if feed.Total != 1 {
		t.Fatalf("total = %d, want 1", feed.Total)
	}
	if repo.countCalls != 1 {
		t.Fatalf("CountAll calls = %d, want 1", repo.countCalls)
	}
	if len(cache.sets) != 1 || cache.sets[0] != 1 {
		t.Fatalf("cache not filled on miss: %v", cache.sets)
	}
}

func TestGetFeedSurvivesCacheFailure(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{getErr: errors.New("redis down")}
	svc := newService(repo, newFakeStore(), cache)

	feed, err := svc.GetFeed(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("a cache failure must not fail the request: %v", err)
	}
	if feed.Total != 0 {
		t.Fatalf("total = %d, want 0 from CountAll fallback", feed.Total)
	}
	if repo.countCalls != 1 {
		t.Fatalf("CountAll calls = %d, want 1", repo.countCalls)
	}
}

func TestGetFeedFailsOnCountError(t *testing.T) {
	repo := &fakeRepo{countErr: errors.New("db down")}
	svc := newService(repo, newFakeStore(), nil)

	if _, err := svc.GetFeed(context.Background(), 10, 0); err == nil {
		t.Fatal("expected error, no partial results allowed")
	}
}
