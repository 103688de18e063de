package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"blog-platform/internal/data/entity"
	"blog-platform/internal/data/repository"
	"blog-platform/pkg/notify"

	"github.com/google/uuid"
)

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*entity.User
	createErr error
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[uuid.UUID]*entity.User{}}
}

func clone(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (m *memUsers) Create(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.rows {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	m.rows[user.ID] = clone(user)
	return nil
}

func (m *memUsers) find(match func(*entity.User) bool, includeDeleted bool) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if (includeDeleted || !u.Deleted()) && match(u) {
			return clone(u)
		}
	}
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ID == id }, false), nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Email == email }, false), nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Username == username }, false), nil
}

func (m *memUsers) FindByEmailOrUsername(_ context.Context, email, username string) (*entity.User, error) {
	if u := m.find(func(u *entity.User) bool { return u.Email == email }, true); u != nil {
		return u, nil
	}
	return m.find(func(u *entity.User) bool { return u.Username == username }, true), nil
}

func (m *memUsers) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*entity.User
	for _, u := range m.rows {
		if !u.Deleted() {
			all = append(all, clone(u))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memUsers) CountAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.rows {
		if !u.Deleted() {
			n++
		}
	}
	return n, nil
}

func (m *memUsers) Activity(_ context.Context, _ uuid.UUID) (entity.UserActivity, error) {
	return entity.UserActivity{}, nil
}

func (m *memUsers) update(id uuid.UUID, fn func(u *entity.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok || u.Deleted() {
		return repository.ErrNotFound
	}
	fn(u)
	return nil
}

func (m *memUsers) UpdateProfile(_ context.Context, user *entity.User) error {
	return m.update(user.ID, func(u *entity.User) {
		u.Username, u.Email, u.Name, u.Bio, u.AvatarURL = user.Username, user.Email, user.Name, user.Bio, user.AvatarURL
	})
}

func (m *memUsers) MarkEmailVerified(_ context.Context, id uuid.UUID, at time.Time) error {
	return m.update(id, func(u *entity.User) {
		if u.EmailVerifiedAt == nil {
			u.EmailVerifiedAt = &at
		}
	})
}

func (m *memUsers) UpdateStatus(_ context.Context, id uuid.UUID, status entity.UserStatus) error {
	return m.update(id, func(u *entity.User) { u.Status = status })
}

func (m *memUsers) UpdateRole(_ context.Context, id uuid.UUID, role entity.UserRole) error {
	return m.update(id, func(u *entity.User) { u.Role = role })
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	now := time.Now()
	return m.update(id, func(u *entity.User) { u.DeletedAt = &now })
}

func (m *memUsers) countByEmail(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.rows {
		if u.Email == email {
			n++
		}
	}
	return n
}

// memCodes is an in-memory VerificationRepository.
type memCodes struct {
	mu   sync.Mutex
	rows []entity.VerificationCode
}

func (m *memCodes) Create(_ context.Context, code *entity.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *code)
	return nil
}

func (m *memCodes) Find(_ context.Context, identifier, code string, purpose entity.VerificationPurpose) (*entity.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.Identifier == identifier && r.Code == code && r.Purpose == purpose {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memCodes) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memCodes) DeleteByIdentifier(_ context.Context, identifier string, purpose entity.VerificationPurpose) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.Identifier == identifier && r.Purpose == purpose {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

func (m *memCodes) countFor(identifier string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.Identifier == identifier {
			n++
		}
	}
	return n
}

// recordingGateway keeps every message and fails for addresses in failFor.
type recordingGateway struct {
	mu      sync.Mutex
	sent    []notify.Message
	failFor map[string]bool
	failAll bool
}

func (g *recordingGateway) Deliver(_ context.Context, msg notify.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll || g.failFor[msg.To] {
		return errors.New("gateway unreachable")
	}
	g.sent = append(g.sent, msg)
	return nil
}

func (g *recordingGateway) lastCode(t interface{ Fatalf(string, ...any) }, to string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.sent) - 1; i >= 0; i-- {
		if g.sent[i].To == to && g.sent[i].Kind == notify.KindVerification {
			return g.sent[i].Code
		}
	}
	t.Fatalf("no verification code sent to %s", to)
	return ""
}

func (g *recordingGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

type stubThrottle struct {
	allow bool
	wait  time.Duration
	err   error
}

func (s stubThrottle) Allow(context.Context, string) (bool, time.Duration, error) {
	return s.allow, s.wait, s.err
}

// memNewsletter is an in-memory NewsletterRepository.
type memNewsletter struct {
	mu         sync.Mutex
	subs       map[uuid.UUID]*entity.NewsletterSubscriber
	campaigns  map[uuid.UUID]*entity.NewsletterCampaign
	deliveries map[uuid.UUID][]uuid.UUID
}

func newMemNewsletter() *memNewsletter {
	return &memNewsletter{
		subs:       map[uuid.UUID]*entity.NewsletterSubscriber{},
		campaigns:  map[uuid.UUID]*entity.NewsletterCampaign{},
		deliveries: map[uuid.UUID][]uuid.UUID{},
	}
}

func (m *memNewsletter) CreateSubscriber(_ context.Context, sub *entity.NewsletterSubscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.Email == sub.Email {
			return repository.ErrDuplicate
		}
	}
	c := *sub
	m.subs[sub.ID] = &c
	return nil
}

func (m *memNewsletter) FindSubscriberByEmail(_ context.Context, email string) (*entity.NewsletterSubscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.Email == email {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memNewsletter) FindSubscriberByID(_ context.Context, id uuid.UUID) (*entity.NewsletterSubscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subs[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (m *memNewsletter) SetSubscribed(_ context.Context, id uuid.UUID, subscribed bool, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Unsubscribed = !subscribed
	if subscribed {
		s.SubscribedAt, s.UnsubscribedAt = at, nil
	} else {
		s.UnsubscribedAt = &at
	}
	return nil
}

func (m *memNewsletter) DeleteSubscriber(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.subs, id)
	return nil
}

func (m *memNewsletter) list(activeOnly bool) []*entity.NewsletterSubscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.NewsletterSubscriber
	for _, s := range m.subs {
		if activeOnly && s.Unsubscribed {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (m *memNewsletter) ListSubscribers(context.Context) ([]*entity.NewsletterSubscriber, error) {
	return m.list(false), nil
}

func (m *memNewsletter) ListActiveSubscribers(context.Context) ([]*entity.NewsletterSubscriber, error) {
	return m.list(true), nil
}

func (m *memNewsletter) CreateCampaign(_ context.Context, c *entity.NewsletterCampaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cc := *c
	m.campaigns[c.ID] = &cc
	return nil
}

func (m *memNewsletter) RecordDelivery(_ context.Context, campaignID, subscriberID uuid.UUID, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries[campaignID] = append(m.deliveries[campaignID], subscriberID)
	return nil
}

func (m *memNewsletter) FinishCampaign(_ context.Context, id uuid.UUID, recipients int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.RecipientCount, c.SentAt = recipients, &at
	return nil
}

// memContent backs the post, category, comment and like repositories with
// one shared store so joins stay consistent.
type memContent struct {
	mu         sync.Mutex
	users      *memUsers
	posts      map[uuid.UUID]*entity.Post
	postCats   map[uuid.UUID][]uuid.UUID
	categories map[uuid.UUID]*entity.Category
	comments   []entity.Comment
	likes      map[[2]uuid.UUID]time.Time
}

func newMemContent(users *memUsers) *memContent {
	return &memContent{
		users:      users,
		posts:      map[uuid.UUID]*entity.Post{},
		postCats:   map[uuid.UUID][]uuid.UUID{},
		categories: map[uuid.UUID]*entity.Category{},
		likes:      map[[2]uuid.UUID]time.Time{},
	}
}

func (m *memContent) repository() *repository.Repository {
	return &repository.Repository{
		User:     m.users,
		Category: memCategories{m},
		Post:     memPosts{m},
		Comment:  memComments{m},
		Like:     memLikes{m},
	}
}

type memPosts struct{ *memContent }

func (m memPosts) Create(_ context.Context, post *entity.Post, categoryIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == post.Slug {
			return repository.ErrDuplicate
		}
	}
	c := *post
	m.posts[post.ID] = &c
	m.postCats[post.ID] = append([]uuid.UUID(nil), categoryIDs...)
	return nil
}

func (m memPosts) FindByID(_ context.Context, id uuid.UUID) (*entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

// view must be called with mu held.
func (m memPosts) view(p *entity.Post) *entity.PostView {
	v := &entity.PostView{Post: *p}
	if u := m.users.find(func(u *entity.User) bool { return u.ID == p.AuthorID }, true); u != nil {
		v.AuthorUsername, v.AuthorName, v.AuthorAvatar = u.Username, u.Name, u.AvatarURL
	}
	for key := range m.likes {
		if key[1] == p.ID {
			v.LikeCount++
		}
	}
	for _, c := range m.comments {
		if c.PostID == p.ID {
			v.CommentCount++
		}
	}
	for _, id := range m.postCats[p.ID] {
		if c, ok := m.categories[id]; ok {
			v.Categories = append(v.Categories, *c)
		}
	}
	return v
}

func (m memPosts) FindViewBySlug(_ context.Context, slug string, includeDrafts bool) (*entity.PostView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug && (includeDrafts || p.Published) {
			return m.view(p), nil
		}
	}
	return nil, nil
}

func (m memPosts) List(_ context.Context, f entity.PostFilter) ([]*entity.PostView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.PostView
	for _, p := range m.posts {
		if !f.IncludeDrafts && !p.Published {
			continue
		}
		if f.AuthorID != uuid.Nil && p.AuthorID != f.AuthorID {
			continue
		}
		v := m.view(p)
		if f.AuthorUsername != "" && v.AuthorUsername != f.AuthorUsername {
			continue
		}
		if f.CategorySlug != "" {
			found := false
			for _, c := range v.Categories {
				found = found || c.Slug == f.CategorySlug
			}
			if !found {
				continue
			}
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memPosts) CountAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.posts)), nil
}

func (m memPosts) Update(_ context.Context, post *entity.Post, categoryIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *post
	m.posts[post.ID] = &c
	if categoryIDs != nil {
		m.postCats[post.ID] = append([]uuid.UUID(nil), categoryIDs...)
	}
	return nil
}

func (m memPosts) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (m memPosts) SetPublished(_ context.Context, id uuid.UUID, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Published = published
	return nil
}

func (m memPosts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.posts, id)
	delete(m.postCats, id)
	return nil
}

type memCategories struct{ *memContent }

func (m memCategories) Create(_ context.Context, c *entity.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Name == c.Name || existing.Slug == c.Slug {
			return repository.ErrDuplicate
		}
	}
	cc := *c
	m.categories[c.ID] = &cc
	return nil
}

func (m memCategories) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.categories[id]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, nil
}

func (m memCategories) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			cc := *c
			return &cc, nil
		}
	}
	return nil, nil
}

func (m memCategories) FindAll(context.Context) ([]*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memCategories) CountExisting(_ context.Context, ids []uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := m.categories[id]; ok {
			n++
		}
	}
	return n, nil
}

func (m memCategories) Update(_ context.Context, c *entity.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cc := *c
	m.categories[c.ID] = &cc
	return nil
}

func (m memCategories) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	for _, ids := range m.postCats {
		for _, cid := range ids {
			if cid == id {
				return repository.ErrReferenced
			}
		}
	}
	delete(m.categories, id)
	return nil
}

type memComments struct{ *memContent }

func (m memComments) Create(_ context.Context, c *entity.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[c.PostID]; !ok {
		return repository.ErrReferenced
	}
	m.comments = append(m.comments, *c)
	return nil
}

func (m memComments) ListByPost(_ context.Context, postID uuid.UUID) ([]*entity.CommentView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.CommentView
	for _, c := range m.comments {
		if c.PostID != postID {
			continue
		}
		v := &entity.CommentView{Comment: c}
		if u := m.users.find(func(u *entity.User) bool { return u.ID == c.UserID }, true); u != nil {
			v.Username, v.Name, v.AvatarURL = u.Username, u.Name, u.AvatarURL
		}
		out = append(out, v)
	}
	return out, nil
}

func (m memComments) CountAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.comments)), nil
}

type memLikes struct{ *memContent }

func (m memLikes) Add(_ context.Context, userID, postID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return repository.ErrReferenced
	}
	key := [2]uuid.UUID{userID, postID}
	if _, ok := m.likes[key]; !ok {
		m.likes[key] = at
	}
	return nil
}

func (m memLikes) Remove(_ context.Context, userID, postID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uuid.UUID{userID, postID}
	if _, ok := m.likes[key]; !ok {
		return false, nil
	}
	delete(m.likes, key)
	return true, nil
}

func (m memLikes) UserIDsByPost(_ context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uuid.UUID
	for key := range m.likes {
		if key[1] == postID {
			out = append(out, key[0])
		}
	}
	return out, nil
}

// seedUser stores a verified active account directly.
func seedUser(users *memUsers, username string, role entity.UserRole) *entity.User {
	now := time.Now()
	u := &entity.User{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:        username,
		Email:           username + "@example.com",
		Name:            username,
		Role:            role,
		Status:          entity.StatusActive,
		EmailVerifiedAt: &now,
	}
	users.rows[u.ID] = clone(u)
	return u
}
