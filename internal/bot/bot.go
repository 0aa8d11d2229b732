package bot

import (
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/jobboard/internal/domain/events"
	"github.com/maxaizer/jobboard/internal/filters"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/maxaizer/jobboard/internal/views"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

const activeSessionsSchedule = "@every 1m"

type Options struct {
	SearchDebounce   time.Duration
	SessionTTL       time.Duration
	ShareBaseURL     string
	ApplyURLTemplate string
}

type Bot struct {
	api      apiInterface
	updates  updatesSource
	client   views.JobsAPI
	bus      EventBus.Bus
	sessions *sessionStore
	cron     *cron.Cron
	options  Options
}

func NewBot(token string, client views.JobsAPI, bus EventBus.Bus, options Options) (*Bot, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	created, err := newBot(api, client, bus, options)
	if err != nil {
		return nil, err
	}
	created.updates = api
	return created, nil
}

func newBot(api apiInterface, client views.JobsAPI, bus EventBus.Bus, options Options) (*Bot, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	if client == nil {
		return nil, errors.New("jobs client is nil")
	}

	if options.SessionTTL <= 0 {
		return nil, errors.New("session ttl must be greater than zero")
	}

	b := &Bot{api: api, client: client, bus: bus, cron: cron.New(), options: options}
	b.sessions = newSessionStore(options.SessionTTL, options.SessionTTL, func(chatID int64) *session {
		return newSession(chatID, client, bus, options)
	})

	if err := bus.Subscribe(events.ListUpdatedTopic, b.onListUpdated); err != nil {
		return nil, err
	}

	if _, err := b.cron.AddFunc(activeSessionsSchedule, b.reportActiveSessions); err != nil {
		return nil, err
	}
	b.cron.Start()

	return b, nil
}

func (b *Bot) Run(ctx context.Context) {

	updateConfig := botApi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.updates.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.updates.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil {
				continue
			}

			if update.Message.Chat.IsGroup() || update.Message.Chat.IsSuperGroup() {
				continue
			}

			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) Stop() {
	<-b.cron.Stop().Done()
	if err := b.bus.Unsubscribe(events.ListUpdatedTopic, b.onListUpdated); err != nil {
		log.Warnf("error unsubscribing from list updates: %v", err)
	}
	b.sessions.closeAll()
}

func (b *Bot) handleMessage(ctx context.Context, message *botApi.Message) {

	if command := message.Command(); command != "" {
		name, args := splitCommand(command, message.CommandArguments())
		b.handleCommand(ctx, message.Chat.ID, name, args)
	} else {
		b.handleInput(ctx, message.Chat.ID, message.Text)
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string, args string) {

	var response botApi.Chattable
	var err error

	if command == startCommandName {
		b.sessions.remove(chatID)
	}
	s := b.sessions.getOrCreate(chatID)

	if category, ok := toggleCommands[command]; ok {
		err = b.toggle(ctx, s, category, args)
	} else if category, ok := lookupCommands[command]; ok {
		response = b.lookups(ctx, s, category)
	} else {
		switch command {
		case startCommandName, helpCommandName:
			messageResponse := botApi.NewMessage(chatID, helpText)
			messageResponse.ReplyMarkup = defaultReplyKeyboard()
			response = messageResponse
		case jobsCommandName:
			s.mount(ctx)
		case jobCommandName:
			response, err = b.openJob(ctx, s, args)
		case removeCommandName:
			err = b.remove(ctx, s, args)
		case clearCommandName:
			s.ensureLoaded(ctx)
			s.filters.ClearAll()
		default:
			response = botApi.NewMessage(chatID, "Unknown command!")
		}
	}

	if err != nil {
		if errors.Is(err, errInvalidArguments) || errors.Is(err, filters.ErrUnknownCategory) {
			response = botApi.NewMessage(chatID, fmt.Sprintf("Couldn't read the command: %v\n\n%s", err, helpText))
		} else {
			response = botApi.NewMessage(chatID, "Internal error!")
			log.Error(err)
		}
	}

	if response == nil {
		return
	}

	b.send(response)
}

// handleInput treats plain text as search input: the text is echoed right away
// and committed once typing pauses.
func (b *Bot) handleInput(ctx context.Context, chatID int64, input string) {

	s := b.sessions.getOrCreate(chatID)
	s.ensureLoaded(ctx)
	s.filters.OnSearchInput(input)

	msg := botApi.NewMessage(chatID, fmt.Sprintf("Searching for %q…", s.filters.DisplayedSearch()))
	b.send(msg)
}

func (b *Bot) toggle(ctx context.Context, s *session, category filters.Category, args string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	s.ensureLoaded(ctx)
	s.filters.ToggleMultiSelect(category, id)
	return nil
}

func (b *Bot) remove(ctx context.Context, s *session, args string) error {
	category, id, err := parseRemoveArgs(args)
	if err != nil {
		return err
	}
	s.ensureLoaded(ctx)
	s.filters.RemoveFilterValue(category, id)
	return nil
}

func (b *Bot) lookups(ctx context.Context, s *session, category filters.Category) botApi.Chattable {
	s.ensureLoaded(ctx)

	lookups := s.list.Lookups()
	items := lookups.Departments
	switch category {
	case filters.Location:
		items = lookups.Locations
	case filters.Function:
		items = lookups.Functions
	}

	return botApi.NewMessage(s.chatID, formatLookups(category, items, s.filters.State().Selected(category)))
}

func (b *Bot) openJob(ctx context.Context, s *session, args string) (botApi.Chattable, error) {
	id, err := parseID(args)
	if err != nil {
		return nil, err
	}

	view, err := s.detail.Open(ctx, id)
	if errors.Is(err, views.ErrStaleView) {
		return nil, nil
	}
	if err != nil && !errors.Is(err, views.ErrJobNotFound) {
		return nil, err
	}

	msg := botApi.NewMessage(s.chatID, formatDetailView(view))
	msg.DisableWebPagePreview = true
	return msg, nil
}

func (b *Bot) onListUpdated(event events.ListUpdated) {
	s, found := b.sessions.get(event.SessionID)
	if !found {
		log.Debugf("list update for unknown session %d ignored", event.SessionID)
		return
	}

	msg := botApi.NewMessage(s.chatID, formatListView(s.list.View(), b.options.ApplyURLTemplate))
	msg.DisableWebPagePreview = true
	b.send(msg)
}

func (b *Bot) reportActiveSessions() {
	metrics.ActiveSessions.Set(float64(b.sessions.count()))
}

func (b *Bot) send(chattable botApi.Chattable) {
	_, _ = sendWithLogError(b.api, chattable)
}

func defaultReplyKeyboard() botApi.ReplyKeyboardMarkup {
	return botApi.NewReplyKeyboard(
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton("/"+jobsCommandName),
			botApi.NewKeyboardButton("/"+clearCommandName),
		),
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton("/"+departmentsCommandName),
			botApi.NewKeyboardButton("/"+locationsCommandName),
			botApi.NewKeyboardButton("/"+functionsCommandName),
		),
	)
}
