package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/content-graph-api/internal/repository"
)

// NewRepositories returns in-memory implementations of every repository.
// InTx runs its callback against the same repositories without isolation.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Article:  NewMockArticleRepository(),
		Page:     NewMockPageRepository(),
		Category: NewMockCategoryRepository(),
		Tag:      NewMockTagRepository(),
		File:     NewMockFileRepository(),
		Slug:     NewMockSlugRepository(),
	}
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func copyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string(nil), s...)
}

func copyRef(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func without(set []string, drop map[string]bool) ([]string, bool) {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out, len(out) != len(set)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// MockArticleRepository is an in-memory ArticleRepository
type MockArticleRepository struct {
	mu       sync.RWMutex
	Articles map[string]*models.Article
	// InsertError, when set, fails Create
	InsertError error
	// RemoveError, when set, fails RemoveCategories and RemoveTags
	RemoveError error
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[string]*models.Article)}
}

func copyArticle(a *models.Article) *models.Article {
	c := *a
	c.Categories = copyStrings(a.Categories)
	c.Tags = copyStrings(a.Tags)
	c.ViewIPs = copyStrings(a.ViewIPs)
	c.LikedIPs = copyStrings(a.LikedIPs)
	c.CoverImage = copyRef(a.CoverImage)
	return &c
}

func articleField(a *models.Article, field string) (interface{}, bool) {
	switch field {
	case "id":
		return a.ID, true
	case "title":
		return a.Title, true
	case "description":
		return a.Description, true
	case "content":
		return a.Content, true
	case "guid":
		return a.GUID, true
	case "categories":
		return a.Categories, true
	case "tags":
		return a.Tags, true
	case "coverImage":
		return a.CoverImage, true
	case "createdAt":
		return a.CreatedAt, true
	case "updatedAt":
		return a.UpdatedAt, true
	}
	return nil, false
}

func (m *MockArticleRepository) snapshot() []*models.Article {
	items := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		items = append(items, a)
	}
	return items
}

func (m *MockArticleRepository) guidTaken(guid, exceptID string) bool {
	for _, a := range m.Articles {
		if a.GUID == guid && a.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MockArticleRepository) Create(ctx context.Context, a *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.guidTaken(a.GUID, "") {
		return fmt.Errorf("%w: idx_articles_guid", repository.ErrDuplicate)
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	m.Articles[a.ID] = copyArticle(a)
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, a *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Articles[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.guidTaken(a.GUID, a.ID) {
		return fmt.Errorf("%w: idx_articles_guid", repository.ErrDuplicate)
	}
	a.UpdatedAt = time.Now().UTC()
	updated := copyArticle(a)
	updated.CreatedAt = stored.CreatedAt
	updated.ViewIPs = stored.ViewIPs
	updated.LikedIPs = stored.LikedIPs
	m.Articles[a.ID] = updated
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Articles, id)
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.Articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyArticle(a), nil
}

func (m *MockArticleRepository) GetByGUID(ctx context.Context, guid string) (*models.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.Articles {
		if a.GUID == guid {
			return copyArticle(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockArticleRepository) GUIDExists(ctx context.Context, guid string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.guidTaken(guid, ""), nil
}

func (m *MockArticleRepository) Find(ctx context.Context, plan query.Plan) ([]*models.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found, err := query.Apply(plan, m.snapshot(), articleField)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Article, len(found))
	for i, a := range found {
		out[i] = copyArticle(a)
	}
	return out, nil
}

func (m *MockArticleRepository) Count(ctx context.Context, filter query.Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.CountMatches(filter, m.snapshot(), articleField)
}

func (m *MockArticleRepository) RemoveCategories(ctx context.Context, ids []string) (int64, error) {
	return m.removeRefs(ids, func(a *models.Article) *[]string { return &a.Categories })
}

func (m *MockArticleRepository) RemoveTags(ctx context.Context, ids []string) (int64, error) {
	return m.removeRefs(ids, func(a *models.Article) *[]string { return &a.Tags })
}

func (m *MockArticleRepository) removeRefs(ids []string, set func(*models.Article) *[]string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveError != nil {
		return 0, m.RemoveError
	}
	drop := toSet(ids)
	var n int64
	for _, a := range m.Articles {
		refs := set(a)
		if kept, changed := without(*refs, drop); changed {
			*refs = kept
			a.UpdatedAt = time.Now().UTC()
			n++
		}
	}
	return n, nil
}

func (m *MockArticleRepository) ClearCoverImages(ctx context.Context, fileIDs []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := toSet(fileIDs)
	var n int64
	for _, a := range m.Articles {
		if a.CoverImage != nil && drop[*a.CoverImage] {
			a.CoverImage = nil
			n++
		}
	}
	return n, nil
}

func (m *MockArticleRepository) referenced(get func(*models.Article) []string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, a := range m.Articles {
		for _, id := range get(a) {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (m *MockArticleRepository) ReferencedCategories(ctx context.Context) ([]string, error) {
	return m.referenced(func(a *models.Article) []string { return a.Categories }), nil
}

func (m *MockArticleRepository) ReferencedTags(ctx context.Context) ([]string, error) {
	return m.referenced(func(a *models.Article) []string { return a.Tags }), nil
}

func (m *MockArticleRepository) ReferencedCoverImages(ctx context.Context) ([]string, error) {
	return m.referenced(func(a *models.Article) []string {
		if a.CoverImage == nil {
			return nil
		}
		return []string{*a.CoverImage}
	}), nil
}

func (m *MockArticleRepository) CoverImageInUse(ctx context.Context, fileID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.Articles {
		if a.CoverImage != nil && *a.CoverImage == fileID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleRepository) ContentContains(ctx context.Context, text string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.Articles {
		if containsFold(a.Content, text) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleRepository) AddViewIP(ctx context.Context, guid, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.GUID == guid {
			if !contains(a.ViewIPs, ip) {
				a.ViewIPs = append(a.ViewIPs, ip)
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockArticleRepository) AddLikedIP(ctx context.Context, id, ip string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if !contains(a.LikedIPs, ip) {
		a.LikedIPs = append(a.LikedIPs, ip)
	}
	return len(a.LikedIPs), nil
}

func (m *MockArticleRepository) HasLiked(ctx context.Context, guid, ip string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.Articles {
		if a.GUID == guid {
			return contains(a.LikedIPs, ip), nil
		}
	}
	return false, nil
}

// MockPageRepository is an in-memory PageRepository
type MockPageRepository struct {
	mu          sync.RWMutex
	Pages       map[string]*models.Page
	InsertError error
}

func NewMockPageRepository() *MockPageRepository {
	return &MockPageRepository{Pages: make(map[string]*models.Page)}
}

func copyPage(p *models.Page) *models.Page {
	c := *p
	c.ViewIPs = copyStrings(p.ViewIPs)
	return &c
}

func pageField(p *models.Page, field string) (interface{}, bool) {
	switch field {
	case "id":
		return p.ID, true
	case "title":
		return p.Title, true
	case "description":
		return p.Description, true
	case "content":
		return p.Content, true
	case "guid":
		return p.GUID, true
	case "createdAt":
		return p.CreatedAt, true
	case "updatedAt":
		return p.UpdatedAt, true
	}
	return nil, false
}

func (m *MockPageRepository) snapshot() []*models.Page {
	items := make([]*models.Page, 0, len(m.Pages))
	for _, p := range m.Pages {
		items = append(items, p)
	}
	return items
}

func (m *MockPageRepository) guidTaken(guid, exceptID string) bool {
	for _, p := range m.Pages {
		if p.GUID == guid && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MockPageRepository) Create(ctx context.Context, p *models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.guidTaken(p.GUID, "") {
		return fmt.Errorf("%w: idx_pages_guid", repository.ErrDuplicate)
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	m.Pages[p.ID] = copyPage(p)
	return nil
}

func (m *MockPageRepository) Update(ctx context.Context, p *models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Pages[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.guidTaken(p.GUID, p.ID) {
		return fmt.Errorf("%w: idx_pages_guid", repository.ErrDuplicate)
	}
	p.UpdatedAt = time.Now().UTC()
	updated := copyPage(p)
	updated.CreatedAt = stored.CreatedAt
	updated.ViewIPs = stored.ViewIPs
	m.Pages[p.ID] = updated
	return nil
}

func (m *MockPageRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Pages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Pages, id)
	return nil
}

func (m *MockPageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.Pages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyPage(p), nil
}

func (m *MockPageRepository) GetByGUID(ctx context.Context, guid string) (*models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.Pages {
		if p.GUID == guid {
			return copyPage(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPageRepository) GUIDExists(ctx context.Context, guid string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.guidTaken(guid, ""), nil
}

func (m *MockPageRepository) Find(ctx context.Context, plan query.Plan) ([]*models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found, err := query.Apply(plan, m.snapshot(), pageField)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Page, len(found))
	for i, p := range found {
		out[i] = copyPage(p)
	}
	return out, nil
}

func (m *MockPageRepository) Count(ctx context.Context, filter query.Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.CountMatches(filter, m.snapshot(), pageField)
}

func (m *MockPageRepository) ContentContains(ctx context.Context, text string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.Pages {
		if containsFold(p.Content, text) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPageRepository) AddViewIP(ctx context.Context, guid, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Pages {
		if p.GUID == guid {
			if !contains(p.ViewIPs, ip) {
				p.ViewIPs = append(p.ViewIPs, ip)
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

// MockCategoryRepository is an in-memory CategoryRepository
type MockCategoryRepository struct {
	mu          sync.RWMutex
	Categories  map[string]*models.Category
	DeleteError error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[string]*models.Category)}
}

func copyCategory(c *models.Category) *models.Category {
	cp := *c
	cp.Parent = copyRef(c.Parent)
	return &cp
}

func categoryField(c *models.Category, field string) (interface{}, bool) {
	switch field {
	case "id":
		return c.ID, true
	case "title":
		return c.Title, true
	case "description":
		return c.Description, true
	case "guid":
		return c.GUID, true
	case "parent":
		return c.Parent, true
	case "order":
		return c.Order, true
	case "createdAt":
		return c.CreatedAt, true
	case "updatedAt":
		return c.UpdatedAt, true
	}
	return nil, false
}

func (m *MockCategoryRepository) snapshot() []*models.Category {
	items := make([]*models.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		items = append(items, c)
	}
	return items
}

func (m *MockCategoryRepository) guidTaken(guid, exceptID string) bool {
	for _, c := range m.Categories {
		if c.GUID == guid && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.guidTaken(c.GUID, "") {
		return fmt.Errorf("%w: idx_categories_guid", repository.ErrDuplicate)
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	m.Categories[c.ID] = copyCategory(c)
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Categories[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.guidTaken(c.GUID, c.ID) {
		return fmt.Errorf("%w: idx_categories_guid", repository.ErrDuplicate)
	}
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	m.Categories[c.ID] = copyCategory(c)
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Categories, id)
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.Categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyCategory(c), nil
}

func (m *MockCategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Category, error) {
	if len(ids) == 0 {
		return []*models.Category{}, nil
	}
	return m.Find(ctx, query.Plan{
		Filter: query.Where(query.In("id", ids)),
		Order:  []query.Sort{{Field: "order"}},
	})
}

func (m *MockCategoryRepository) ClearParent(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.Categories {
		if c.Parent != nil && *c.Parent == id {
			c.Parent = nil
			n++
		}
	}
	return n, nil
}

func (m *MockCategoryRepository) Find(ctx context.Context, plan query.Plan) ([]*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found, err := query.Apply(plan, m.snapshot(), categoryField)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Category, len(found))
	for i, c := range found {
		out[i] = copyCategory(c)
	}
	return out, nil
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter query.Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.CountMatches(filter, m.snapshot(), categoryField)
}

// MockTagRepository is an in-memory TagRepository with a unique guid index
type MockTagRepository struct {
	mu   sync.RWMutex
	Tags map[string]*models.Tag
	// Creates counts successful inserts, including those made by GetOrCreate
	Creates     int
	InsertError error
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{Tags: make(map[string]*models.Tag)}
}

func tagField(t *models.Tag, field string) (interface{}, bool) {
	switch field {
	case "id":
		return t.ID, true
	case "title":
		return t.Title, true
	case "guid":
		return t.GUID, true
	case "createdAt":
		return t.CreatedAt, true
	case "updatedAt":
		return t.UpdatedAt, true
	}
	return nil, false
}

func (m *MockTagRepository) snapshot() []*models.Tag {
	items := make([]*models.Tag, 0, len(m.Tags))
	for _, t := range m.Tags {
		items = append(items, t)
	}
	return items
}

func (m *MockTagRepository) byGUID(guid string) *models.Tag {
	for _, t := range m.Tags {
		if t.GUID == guid {
			return t
		}
	}
	return nil
}

func (m *MockTagRepository) insert(t *models.Tag) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	stored := *t
	m.Tags[t.ID] = &stored
	m.Creates++
	return nil
}

func (m *MockTagRepository) Create(ctx context.Context, t *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byGUID(t.GUID) != nil {
		return fmt.Errorf("%w: idx_tags_guid", repository.ErrDuplicate)
	}
	return m.insert(t)
}

func (m *MockTagRepository) GetOrCreate(ctx context.Context, t *models.Tag) (*models.Tag, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.byGUID(t.GUID); existing != nil {
		found := *existing
		return &found, false, nil
	}
	if err := m.insert(t); err != nil {
		return nil, false, err
	}
	created := *t
	return &created, true, nil
}

func (m *MockTagRepository) Update(ctx context.Context, t *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Tags[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if other := m.byGUID(t.GUID); other != nil && other.ID != t.ID {
		return fmt.Errorf("%w: idx_tags_guid", repository.ErrDuplicate)
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	updated := *t
	m.Tags[t.ID] = &updated
	return nil
}

func (m *MockTagRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Tags[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Tags, id)
	return nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.Tags[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *t
	return &found, nil
}

func (m *MockTagRepository) GetByGUID(ctx context.Context, guid string) (*models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t := m.byGUID(guid)
	if t == nil {
		return nil, repository.ErrNotFound
	}
	found := *t
	return &found, nil
}

func (m *MockTagRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return []*models.Tag{}, nil
	}
	return m.Find(ctx, query.Plan{
		Filter: query.Where(query.In("id", ids)),
		Order:  []query.Sort{{Field: "title"}},
	})
}

func (m *MockTagRepository) Find(ctx context.Context, plan query.Plan) ([]*models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found, err := query.Apply(plan, m.snapshot(), tagField)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Tag, len(found))
	for i, t := range found {
		cp := *t
		out[i] = &cp
	}
	return out, nil
}

func (m *MockTagRepository) Count(ctx context.Context, filter query.Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.CountMatches(filter, m.snapshot(), tagField)
}

// MockFileRepository is an in-memory FileRepository
type MockFileRepository struct {
	mu    sync.RWMutex
	Files map[string]*models.File
}

func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{Files: make(map[string]*models.File)}
}

func copyFile(f *models.File) *models.File {
	c := *f
	c.FolderID = copyRef(f.FolderID)
	return &c
}

func fileField(f *models.File, field string) (interface{}, bool) {
	switch field {
	case "id":
		return f.ID, true
	case "title":
		return f.Title, true
	case "description":
		return f.Description, true
	case "filename":
		return f.Filename, true
	case "isFolder":
		return f.IsFolder, true
	case "mimetype":
		return f.Mimetype, true
	case "path":
		return f.Path, true
	case "size":
		return f.Size, true
	case "folderId":
		return f.FolderID, true
	case "createdAt":
		return f.CreatedAt, true
	case "updatedAt":
		return f.UpdatedAt, true
	}
	return nil, false
}

func (m *MockFileRepository) snapshot() []*models.File {
	items := make([]*models.File, 0, len(m.Files))
	for _, f := range m.Files {
		items = append(items, f)
	}
	return items
}

func (m *MockFileRepository) Create(ctx context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.IsFolder {
		for _, other := range m.Files {
			if other.IsFolder && other.Path == f.Path {
				return fmt.Errorf("%w: idx_files_folder_path", repository.ErrDuplicate)
			}
		}
	}
	stamp(&f.CreatedAt, &f.UpdatedAt)
	m.Files[f.ID] = copyFile(f)
	return nil
}

func (m *MockFileRepository) Update(ctx context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Files[f.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = f.Title
	stored.Description = f.Description
	stored.UpdatedAt = time.Now().UTC()
	f.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *MockFileRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Files[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Files, id)
	return nil
}

func (m *MockFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.Files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyFile(f), nil
}

func (m *MockFileRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.File, error) {
	if len(ids) == 0 {
		return []*models.File{}, nil
	}
	return m.Find(ctx, query.Plan{Filter: query.Where(query.In("id", ids))})
}

func (m *MockFileRepository) GetFolderByPath(ctx context.Context, path string) (*models.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.Files {
		if f.IsFolder && f.Path == path {
			return copyFile(f), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockFileRepository) HasChildren(ctx context.Context, folderID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.Files {
		if f.FolderID != nil && *f.FolderID == folderID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockFileRepository) Find(ctx context.Context, plan query.Plan) ([]*models.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found, err := query.Apply(plan, m.snapshot(), fileField)
	if err != nil {
		return nil, err
	}
	out := make([]*models.File, len(found))
	for i, f := range found {
		out[i] = copyFile(f)
	}
	return out, nil
}

func (m *MockFileRepository) Count(ctx context.Context, filter query.Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.CountMatches(filter, m.snapshot(), fileField)
}

// MockSlugRepository is an in-memory guid namespace with a unique key
type MockSlugRepository struct {
	mu     sync.Mutex
	Claims map[string]models.SlugClaim
}

func NewMockSlugRepository() *MockSlugRepository {
	return &MockSlugRepository{Claims: make(map[string]models.SlugClaim)}
}

func (m *MockSlugRepository) Claim(ctx context.Context, c models.SlugClaim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.Claims[c.GUID]; taken {
		return fmt.Errorf("%w: guids_pkey", repository.ErrDuplicate)
	}
	m.Claims[c.GUID] = c
	return nil
}

func (m *MockSlugRepository) Release(ctx context.Context, guid, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Claims[guid]; ok && c.OwnerID == ownerID {
		delete(m.Claims, guid)
	}
	return nil
}

func (m *MockSlugRepository) Get(ctx context.Context, guid string) (*models.SlugClaim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Claims[guid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

// Interface compliance
var (
	_ repository.ArticleRepository  = (*MockArticleRepository)(nil)
	_ repository.PageRepository     = (*MockPageRepository)(nil)
	_ repository.CategoryRepository = (*MockCategoryRepository)(nil)
	_ repository.TagRepository      = (*MockTagRepository)(nil)
	_ repository.FileRepository     = (*MockFileRepository)(nil)
	_ repository.SlugRepository     = (*MockSlugRepository)(nil)
)
