package bot

import (
	"context"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testChatID   = int64(1)
	testDebounce = 50 * time.Millisecond
)

type mockApi struct {
	mu           sync.Mutex
	SentMessages []botApi.Chattable
}

func (m *mockApi) Send(chattable botApi.Chattable) (botApi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = append(m.SentMessages, chattable)
	return botApi.Message{}, nil
}

func (m *mockApi) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.FilterMap(m.SentMessages, func(chattable botApi.Chattable, _ int) (string, bool) {
		msg, ok := chattable.(botApi.MessageConfig)
		return msg.Text, ok
	})
}

func (m *mockApi) last() string {
	texts := m.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type mockJobsAPI struct {
	mu       sync.Mutex
	jobs     []models.Job
	lookups  models.Lookups
	requests []jobsoid.SearchParameters
}

func (m *mockJobsAPI) FetchJobs(_ context.Context, parameters jobsoid.SearchParameters) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, parameters)

	return lo.Filter(m.jobs, func(job models.Job, _ int) bool {
		if parameters.Text != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(parameters.Text)) {
			return false
		}
		if len(parameters.DepartmentIDs) > 0 && !lo.SomeBy(parameters.DepartmentIDs, job.HasDepartment) {
			return false
		}
		return true
	}), nil
}

func (m *mockJobsAPI) FetchJobByID(_ context.Context, id int) (models.Job, error) {
	job, found := lo.Find(m.jobs, func(job models.Job) bool { return job.ID == id })
	if !found {
		return models.Job{}, &jobsoid.RequestError{Endpoint: "job", Status: 404, Body: "not found"}
	}
	return job, nil
}

func (m *mockJobsAPI) FetchLocations(_ context.Context) ([]models.LookupItem, error) {
	return m.lookups.Locations, nil
}

func (m *mockJobsAPI) FetchDepartments(_ context.Context) ([]models.LookupItem, error) {
	return m.lookups.Departments, nil
}

func (m *mockJobsAPI) FetchDivisions(_ context.Context) ([]models.LookupItem, error) {
	return m.lookups.Divisions, nil
}

func (m *mockJobsAPI) FetchFunctions(_ context.Context) ([]models.LookupItem, error) {
	return m.lookups.Functions, nil
}

func (m *mockJobsAPI) lastRequest() jobsoid.SearchParameters {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return jobsoid.SearchParameters{}
	}
	return m.requests[len(m.requests)-1]
}

func newMockJobsAPI() *mockJobsAPI {
	engineering := &models.Department{ID: 1, Title: "Engineering"}
	design := &models.Department{ID: 2, Title: "Design"}

	return &mockJobsAPI{
		jobs: []models.Job{
			{ID: 1, Title: "Go Developer", Department: engineering, Location: &models.Location{City: "Panaji", State: "Goa"}},
			{ID: 2, Title: "Golang Lead", Department: engineering, ApplyURL: "https://example.com/apply/2"},
			{ID: 3, Title: "UI Designer", Department: design,
				Description: `<div id="job-overview">Design for React apps.</div><div id="requirements"><ul><li>Figma</li></ul></div>`},
		},
		lookups: models.Lookups{
			Departments: []models.LookupItem{{ID: 1, Title: "Engineering"}, {ID: 2, Title: "Design"}},
			Locations:   []models.LookupItem{{ID: 10, Title: "Panaji"}},
			Functions:   []models.LookupItem{{ID: 20, Title: "Development"}},
			Divisions:   []models.LookupItem{},
		},
	}
}

func newTestBot(t *testing.T) (*Bot, *mockApi, *mockJobsAPI) {
	api := &mockApi{}
	jobs := newMockJobsAPI()

	b, err := newBot(api, jobs, EventBus.New(), Options{
		SearchDebounce:   testDebounce,
		SessionTTL:       time.Minute,
		ShareBaseURL:     "http://localhost:8080",
		ApplyURLTemplate: "https://jobs.teknorix.com/apply/%d",
	})
	require.NoError(t, err)
	t.Cleanup(b.Stop)

	return b, api, jobs
}

func commandMessage(text string) *botApi.Message {
	length := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		length = i
	}
	return &botApi.Message{
		Text:     text,
		Chat:     &botApi.Chat{ID: testChatID, Type: "private"},
		Entities: []botApi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func textMessage(text string) *botApi.Message {
	return &botApi.Message{Text: text, Chat: &botApi.Chat{ID: testChatID, Type: "private"}}
}

func simulateUserInput(b *Bot, messages ...*botApi.Message) {
	for _, message := range messages {
		b.handleMessage(context.Background(), message)
	}
}

func Test_NewBot_WhenBusIsNil_ShouldFail(t *testing.T) {
	_, err := newBot(&mockApi{}, newMockJobsAPI(), nil, Options{SessionTTL: time.Minute})
	assert.Error(t, err)
}

func Test_Bot_Start_ShouldSendHelpWithKeyboard(t *testing.T) {

	assert := assert.New(t)
	b, api, _ := newTestBot(t)

	simulateUserInput(b, commandMessage("/start"))

	require.Len(t, api.SentMessages, 1)
	msg := api.SentMessages[0].(botApi.MessageConfig)
	assert.Contains(msg.Text, "/jobs")
	assert.IsType(botApi.ReplyKeyboardMarkup{}, msg.ReplyMarkup)
}

func Test_Bot_Jobs_ShouldSendGroupedList(t *testing.T) {

	assert := assert.New(t)
	b, api, _ := newTestBot(t)

	simulateUserInput(b, commandMessage("/jobs"))

	require.Len(t, api.texts(), 1)
	text := api.last()
	assert.Contains(text, "Open positions: 3")
	assert.Contains(text, "ENGINEERING")
	assert.Contains(text, "DESIGN")
	assert.Less(strings.Index(text, "ENGINEERING"), strings.Index(text, "DESIGN"))
	assert.Contains(text, "Engineering | Panaji, Goa | FULL TIME")
	assert.Contains(text, "/job_1")
	assert.Contains(text, "apply: https://jobs.teknorix.com/apply/1")
}

func Test_Bot_SearchInput_ShouldSendOneListAfterDebounce(t *testing.T) {

	assert := assert.New(t)
	b, api, jobs := newTestBot(t)

	simulateUserInput(b, commandMessage("/jobs"), textMessage("g"), textMessage("go"), textMessage("golang"))

	texts := api.texts()
	require.Len(t, texts, 4)
	assert.Equal(`Searching for "g"…`, texts[1])
	assert.Equal(`Searching for "golang"…`, texts[3])

	assert.Eventually(func() bool { return len(api.texts()) == 5 }, time.Second, 5*time.Millisecond)
	assert.Never(func() bool { return len(api.texts()) > 5 }, 3*testDebounce, 5*time.Millisecond)

	text := api.last()
	assert.Contains(text, `Search: "golang"`)
	assert.Contains(text, "Golang Lead")
	assert.NotContains(text, "Go Developer")
	assert.Equal("golang", jobs.lastRequest().Text)
}

func Test_Bot_ToggleDepartment_ShouldFilterAndShowChip(t *testing.T) {

	assert := assert.New(t)
	b, api, jobs := newTestBot(t)

	simulateUserInput(b, commandMessage("/dept_2"))

	require.Len(t, api.texts(), 1)
	text := api.last()
	assert.Contains(text, "Filters:")
	assert.Contains(text, "Design  /remove_dept_2")
	assert.Contains(text, "UI Designer")
	assert.NotContains(text, "Go Developer")
	assert.Equal([]int{2}, jobs.lastRequest().DepartmentIDs)

	simulateUserInput(b, commandMessage("/departments"))
	assert.Contains(api.last(), "✓ Design  /dept_2")
	assert.Contains(api.last(), "  Engineering  /dept_1")

	simulateUserInput(b, commandMessage("/remove dept 2"))
	assert.NotContains(api.last(), "Filters:")
	assert.Contains(api.last(), "Open positions: 3")
}

func Test_Bot_Clear_ShouldResetSearchAndFilters(t *testing.T) {

	assert := assert.New(t)
	b, api, jobs := newTestBot(t)

	simulateUserInput(b, commandMessage("/loc 10"), textMessage("lead"), commandMessage("/clear"))

	assert.Never(func() bool { return strings.Contains(api.last(), `Search: "lead"`) }, 3*testDebounce, 5*time.Millisecond)
	assert.Contains(api.last(), "Open positions: 3")
	assert.True(jobs.lastRequest().IsEmpty())
}

func Test_Bot_Job_ShouldSendDetails(t *testing.T) {

	assert := assert.New(t)
	b, api, _ := newTestBot(t)

	simulateUserInput(b, commandMessage("/job_3"))

	text := api.last()
	assert.Contains(text, "UI Designer")
	assert.Contains(text, "Looking for React / Angular Experts.")
	assert.Contains(text, "Requirements:\n  • Figma")
	assert.Contains(text, "facebook.com/sharer/sharer.php?u=http%3A%2F%2Flocalhost%3A8080%2Fjobs%2F3")
	assert.Contains(text, "Related jobs:\n  Go Developer  /job_1\n  Golang Lead  /job_2")
}

func Test_Bot_Job_WhenNotFound_ShouldReplyJobNotFound(t *testing.T) {

	b, api, _ := newTestBot(t)

	simulateUserInput(b, commandMessage("/job 404"))

	assert.True(t, strings.HasPrefix(api.last(), "Job Not Found"))
	assert.Contains(t, api.last(), "/jobs")
}

func Test_Bot_WhenArgumentsInvalid_ShouldExplain(t *testing.T) {

	assert := assert.New(t)
	b, api, _ := newTestBot(t)

	simulateUserInput(b, commandMessage("/dept abc"))
	assert.Contains(api.last(), "Couldn't read the command")

	simulateUserInput(b, commandMessage("/remove salary 3"))
	assert.Contains(api.last(), "unknown filter category")

	simulateUserInput(b, commandMessage("/dance"))
	assert.Equal("Unknown command!", api.last())
}

func Test_Bot_Start_ShouldDropPendingSearch(t *testing.T) {

	b, api, _ := newTestBot(t)

	simulateUserInput(b, textMessage("golang"), commandMessage("/start"))

	assert.Never(t, func() bool {
		return lo.SomeBy(api.texts(), func(text string) bool { return strings.Contains(text, `Search: "golang"`) })
	}, 3*testDebounce, 5*time.Millisecond)
}

func Test_Bot_ReportActiveSessions_ShouldSetGauge(t *testing.T) {

	b, _, _ := newTestBot(t)
	b.sessions.getOrCreate(1)
	b.sessions.getOrCreate(2)
	b.sessions.getOrCreate(1)

	b.reportActiveSessions()

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ActiveSessions))
}

func Test_SessionStore_WhenSessionExpires_ShouldStopPendingSearch(t *testing.T) {

	store := newSessionStore(20*time.Millisecond, 20*time.Millisecond, func(chatID int64) *session {
		return newSession(chatID, newMockJobsAPI(), nil, Options{SearchDebounce: time.Hour})
	})

	s := store.getOrCreate(testChatID)
	s.filters.OnSearchInput("golang")
	require.True(t, s.filters.HasPendingSearch())

	assert.Eventually(t, func() bool { return !s.filters.HasPendingSearch() }, time.Second, 10*time.Millisecond)
	_, found := store.get(testChatID)
	assert.False(t, found)
}

func Test_SplitCommand(t *testing.T) {

	tests := []struct {
		command, args      string
		wantName, wantArgs string
	}{
		{"job", " 101 ", "job", "101"},
		{"job_101", "", "job", "101"},
		{"remove_dept_3", "", "remove", "dept 3"},
		{"remove", "loc 4", "remove", "loc 4"},
	}

	for _, tt := range tests {
		name, args := splitCommand(tt.command, tt.args)
		assert.Equal(t, tt.wantName, name, tt.command)
		assert.Equal(t, tt.wantArgs, args, tt.command)
	}
}

func Test_Truncate_ShouldRespectMessageLimit(t *testing.T) {

	text := truncate(strings.Repeat("я", maxMessageLength+10))

	assert.Len(t, []rune(text), maxMessageLength)
	assert.True(t, strings.HasSuffix(text, truncatedSuffix))
	assert.Equal(t, "short", truncate("short"))
}

func Test_SessionStore_WhenExpiredSessionNotSwept_ShouldCloseItBeforeReplacing(t *testing.T) {

	store := newSessionStore(10*time.Millisecond, time.Hour, func(chatID int64) *session {
		return newSession(chatID, newMockJobsAPI(), nil, Options{SearchDebounce: time.Hour})
	})

	stale := store.getOrCreate(testChatID)
	stale.filters.OnSearchInput("golang")
	require.True(t, stale.filters.HasPendingSearch())

	time.Sleep(30 * time.Millisecond)
	fresh := store.getOrCreate(testChatID)

	assert.NotSame(t, stale, fresh)
	assert.False(t, stale.filters.HasPendingSearch())

	stale.filters.OnSearchInput("ignored")
	assert.False(t, stale.filters.HasPendingSearch())
}
