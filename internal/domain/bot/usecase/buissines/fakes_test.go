package buissines

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shred03/filestore-bot/config"
	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	"github.com/shred03/filestore-bot/pkg/previewcache"
)

type sentText struct {
	ChatID int64
	ID     int
	Text   string
}

type fakeSender struct {
	mu       sync.Mutex
	username string
	nextID   int

	media          map[int]*entities.MediaDescriptor
	fetchErr       map[int]error
	fetchCalls     int
	resolved       map[string]string
	sendFileErrSeq map[int]error
	copyErrTo      map[int64]error

	sentTexts []sentText
	sentFiles []entities.StoredFile
	deleted   []int
	copiedTo  []int64
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		username:       "filestorebot",
		media:          make(map[int]*entities.MediaDescriptor),
		fetchErr:       make(map[int]error),
		resolved:       make(map[string]string),
		sendFileErrSeq: make(map[int]error),
		copyErrTo:      make(map[int64]error),
	}
}

func (s *fakeSender) next() int {
	s.nextID++
	return s.nextID
}

func (s *fakeSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := s.SendMessageAndGetID(ctx, chatID, text)
	return err
}

func (s *fakeSender) SendMessageAndGetID(_ context.Context, chatID int64, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next()
	s.sentTexts = append(s.sentTexts, sentText{ChatID: chatID, ID: id, Text: text})
	return id, nil
}

func (s *fakeSender) EditMessageText(_ context.Context, _ int64, _ int, _ string) error {
	return nil
}

func (s *fakeSender) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, messageID)
	return nil
}

func (s *fakeSender) SendStoredFile(_ context.Context, _ int64, file entities.StoredFile) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sendFileErrSeq[file.MessageSequence]; err != nil {
		return 0, err
	}
	s.sentFiles = append(s.sentFiles, file)
	return s.next(), nil
}

func (s *fakeSender) FetchChannelMessage(_ context.Context, _ int64, _ string, sequence int) (*entities.MediaDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	if err := s.fetchErr[sequence]; err != nil {
		return nil, err
	}
	return s.media[sequence], nil
}

func (s *fakeSender) CopyMessage(_ context.Context, toChatID, _ int64, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.copyErrTo[toChatID]; err != nil {
		return err
	}
	s.copiedTo = append(s.copiedTo, toChatID)
	return nil
}

func (s *fakeSender) ResolveChannelID(_ context.Context, ref string) (string, error) {
	if !strings.HasPrefix(ref, "@") {
		return ref, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.resolved[ref]
	if !ok {
		return "", fmt.Errorf("unknown channel %s", ref)
	}
	return id, nil
}

func (s *fakeSender) BotUsername() string {
	return s.username
}

type fakeFiles struct {
	mu        sync.Mutex
	records   []entities.StoredFile
	findCalls int
}

func (f *fakeFiles) Insert(_ context.Context, file *entities.StoredFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *file)
	return nil
}

func (f *fakeFiles) InsertMany(_ context.Context, files []entities.StoredFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, files...)
	return nil
}

func (f *fakeFiles) FindByToken(_ context.Context, token string) ([]entities.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	var out []entities.StoredFile
	for _, r := range f.records {
		if r.BatchToken == token {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageSequence < out[j].MessageSequence })
	return out, nil
}

func (f *fakeFiles) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.records)), nil
}

func (f *fakeFiles) CountSince(_ context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users []entities.User
}

func (u *fakeUsers) Upsert(_ context.Context, user *entities.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, existing := range u.users {
		if existing.UserID == user.UserID {
			u.users[i] = *user
			return nil
		}
	}
	u.users = append(u.users, *user)
	return nil
}

func (u *fakeUsers) All(_ context.Context) ([]entities.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]entities.User(nil), u.users...), nil
}

func (u *fakeUsers) Count(_ context.Context) (int64, error) {
	return int64(len(u.users)), nil
}

func (u *fakeUsers) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, user := range u.users {
		if !user.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakePosts struct {
	setting *entities.PostSetting
}

func (p *fakePosts) LatestForAdmin(_ context.Context, adminID int64) (*entities.PostSetting, error) {
	if p.setting == nil || p.setting.AdminID != adminID {
		return nil, fmt.Errorf("no setting for admin %d", adminID)
	}
	return p.setting, nil
}

func (p *fakePosts) UpsertChannel(_ context.Context, adminID int64, channelID, channelUsername string) error {
	p.setting = &entities.PostSetting{AdminID: adminID, ChannelID: channelID, ChannelUsername: channelUsername}
	return nil
}

func (p *fakePosts) UpsertSticker(_ context.Context, adminID int64, stickerID string) error {
	if p.setting == nil {
		return fmt.Errorf("no setting for admin %d", adminID)
	}
	p.setting.StickerID = stickerID
	return nil
}

type fakeOracle struct {
	member map[string]bool
	errFor map[string]error
}

func (o *fakeOracle) IsMember(_ context.Context, channelID string, _ int64) (bool, error) {
	if err := o.errFor[channelID]; err != nil {
		return false, err
	}
	return o.member[channelID], nil
}

type scheduledTask struct {
	ChatID     int64
	MessageIDs []int
	Delay      time.Duration
}

type fakeScheduler struct {
	tasks []scheduledTask
}

func (s *fakeScheduler) Schedule(chatID int64, messageIDs []int, delay time.Duration) string {
	s.tasks = append(s.tasks, scheduledTask{
		ChatID:     chatID,
		MessageIDs: append([]int(nil), messageIDs...),
		Delay:      delay,
	})
	return fmt.Sprintf("task-%d", len(s.tasks))
}

type fakeAudit struct {
	commands []string
	errors   []string
}

func (a *fakeAudit) Command(_ context.Context, _ int64, _, command, _, _ string) {
	a.commands = append(a.commands, command)
}

func (a *fakeAudit) Error(_ context.Context, _ int64, _, command, _ string) {
	a.errors = append(a.errors, command)
}

type fakeMovies struct {
	pages   map[int]*entities.MovieSearchResult
	details map[int64]*entities.Movie
}

func (m *fakeMovies) SearchMovies(_ context.Context, _ string, page int) (*entities.MovieSearchResult, error) {
	result, ok := m.pages[page]
	if !ok {
		return &entities.MovieSearchResult{Page: page}, nil
	}
	return result, nil
}

func (m *fakeMovies) MovieDetails(_ context.Context, movieID int64) (*entities.Movie, error) {
	movie, ok := m.details[movieID]
	if !ok {
		return nil, fmt.Errorf("movie %d not found", movieID)
	}
	return movie, nil
}

type testEnv struct {
	uc        *UseCase
	sender    *fakeSender
	files     *fakeFiles
	users     *fakeUsers
	posts     *fakePosts
	oracle    *fakeOracle
	scheduler *fakeScheduler
	audit     *fakeAudit
	movies    *fakeMovies
}

const testAdminID int64 = 99

func newTestEnv(mutate func(cfg *config.Config)) *testEnv {
	cfg := &config.Config{
		Telegram: config.TelegramConfig{AdminIDs: []int64{testAdminID}},
		Storage:  config.StorageConfig{AllowedChannels: []string{"-1001234567890"}},
		Gating: config.GatingConfig{
			ChannelIDs:       []string{"-100111"},
			ChannelUsernames: []string{"gatechannel"},
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	env := &testEnv{
		sender:    newFakeSender(),
		files:     &fakeFiles{},
		users:     &fakeUsers{},
		posts:     &fakePosts{},
		oracle:    &fakeOracle{member: map[string]bool{}, errFor: map[string]error{}},
		scheduler: &fakeScheduler{},
		audit:     &fakeAudit{},
		movies:    &fakeMovies{pages: map[int]*entities.MovieSearchResult{}, details: map[int64]*entities.Movie{}},
	}

	env.uc = NewUseCase(
		env.files, env.users, env.posts, env.movies,
		nil, nil, env.audit,
		previewcache.New(),
		cfg, zerolog.Nop(),
	)
	env.uc.SetSender(env.sender)
	env.uc.SetMembershipOracle(env.oracle)
	env.uc.SetScheduler(env.scheduler)

	return env
}
