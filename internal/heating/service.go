package heating

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nerrad567/heizung-bridge/internal/homeassistant"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/config"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/logging"
)

// Gateway is the subset of the Home Assistant client the flows need.
// *homeassistant.Client satisfies it.
type Gateway interface {
	TurnOn(ctx context.Context, entityID string) ([]byte, error)
	TurnOff(ctx context.Context, entityID string) ([]byte, error)
	SetText(ctx context.Context, entityID, value string) ([]byte, error)
	Logbook(ctx context.Context, entry homeassistant.LogbookEntry) ([]byte, error)
	GetState(ctx context.Context, entityID string) (homeassistant.State, error)
}

// RequestLog records inbound requests and downstream bodies.
// *requestlog.Log satisfies it.
type RequestLog interface {
	Request(ctx context.Context, command, channel, user, text string)
	Response(ctx context.Context, method, path string, body []byte)
}

// SwitchEvent describes one actuation attempt.
type SwitchEvent struct {
	Room     string
	EntityID string
	Action   Action
	User     string
	Channel  string
	Comment  string
	Success  bool
	Time     time.Time
}

// StatusResult describes one status sensor query.
type StatusResult struct {
	Sensor string
	State  string
	OK     bool
	Time   time.Time
}

// Recorder receives switch events and status results for publication
// (MQTT, InfluxDB). Implementations must not block for long and must not
// fail the request; errors are theirs to log.
type Recorder interface {
	RecordSwitch(ctx context.Context, ev SwitchEvent)
	RecordStatus(ctx context.Context, res StatusResult)
}

// Options holds the dependencies of a Service.
type Options struct {
	Slack      config.SlackConfig
	Rooms      config.RoomMapping
	Gateway    Gateway
	Logger     *logging.Logger
	RequestLog RequestLog // optional
	Recorder   Recorder   // optional
}

// Service handles slash commands.
//
// Thread Safety: Handle is safe for concurrent use. The only shared state
// is the read-only configuration.
type Service struct {
	channel    string
	rooms      config.RoomMapping
	validator  *Validator
	gateway    Gateway
	logger     *logging.Logger
	requestLog RequestLog
	recorder   Recorder
	commands   metric.Int64Counter
	now        func() time.Time
}

// NewService creates a Service.
//
// Returns an error if the gateway or logger is missing.
func NewService(opts Options) (*Service, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	commands, err := otel.Meter("github.com/nerrad567/heizung-bridge/internal/heating").
		Int64Counter("heizung.commands",
			metric.WithDescription("Slash commands handled, by command and outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating command counter: %w", err)
	}

	return &Service{
		channel:    opts.Slack.Channel,
		rooms:      opts.Rooms,
		validator:  NewValidator(opts.Slack.Token),
		gateway:    opts.Gateway,
		logger:     opts.Logger.Component("heating"),
		requestLog: opts.RequestLog,
		recorder:   opts.Recorder,
		commands:   commands,
		now:        time.Now,
	}, nil
}

// Handle processes one slash command and returns its reply.
//
// It never fails: every error is converted into the matching fixed reply.
func (s *Service) Handle(ctx context.Context, req Request) Reply {
	if s.requestLog != nil {
		s.requestLog.Request(ctx, req.Command, req.ChannelName, req.UserName, req.Text)
	}

	reply, err := s.dispatch(ctx, req)

	s.commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", Classify(req.Command).String()),
		attribute.String("outcome", outcome(err)),
	))

	if err != nil {
		s.logger.InfoContext(ctx, "command rejected",
			"command", req.Command,
			"channel", req.ChannelName,
			"user", req.UserName,
			"reason", err,
		)
		return s.replyForError(err)
	}
	return reply
}

// dispatch validates the request and routes it to its flow.
func (s *Service) dispatch(ctx context.Context, req Request) (Reply, error) {
	if err := s.validator.Validate(req); err != nil {
		return Reply{}, err
	}

	switch action := Classify(req.Command); action {
	case ActionTurnOn, ActionTurnOff:
		return s.handleSwitch(ctx, action, req)
	case ActionQueryStatus:
		return s.handleStatus(ctx, req)
	default:
		return Reply{}, ErrUnsupportedCommand
	}
}

// logResponse writes a successful downstream body to the request log.
func (s *Service) logResponse(ctx context.Context, method, path string, body []byte) {
	if s.requestLog != nil {
		s.requestLog.Response(ctx, method, path, body)
	}
}
