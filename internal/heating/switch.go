package heating

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nerrad567/heizung-bridge/internal/homeassistant"
)

// handleSwitch runs the turn-on / turn-off flow.
//
// Calls are strictly sequential: actuation first, then the logbook entry,
// then the comment annotation. Only the actuation can fail the request.
func (s *Service) handleSwitch(ctx context.Context, action Action, req Request) (Reply, error) {
	if req.ChannelName != s.channel {
		return Reply{}, ErrChannelRestricted
	}

	args := ParseArguments(req.Text)
	if args.Room == "" {
		return Reply{}, ErrMissingRoom
	}

	device, ok := s.rooms.Lookup(args.Room)
	if !ok {
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownRoom, args.Room)
	}

	service, err := action.Service()
	if err != nil {
		return Reply{}, err
	}

	entityID := homeassistant.EntityID(homeassistant.DomainSwitch, device)
	log := s.logger.With("room", args.Room, "entity_id", entityID, "service", service)

	body, err := s.actuate(ctx, action, entityID)
	s.recordSwitch(ctx, SwitchEvent{
		Room:     args.Room,
		EntityID: entityID,
		Action:   action,
		User:     req.UserName,
		Channel:  req.ChannelName,
		Comment:  args.Comment,
		Success:  err == nil,
	})
	if err != nil {
		log.ErrorContext(ctx, "switch call failed", "error", err)
		return Reply{}, fmt.Errorf("%w: %w", ErrGateway, err)
	}
	s.logResponse(ctx, http.MethodPost, "services/switch/"+service, body)
	log.InfoContext(ctx, "heating switched", "user", req.UserName)

	if args.HasComment() {
		s.writeLogbook(ctx, args.Room, service, entityID, args.Comment)
	}

	comment := textCommentKept
	switch {
	case action == ActionTurnOn && args.HasComment():
		comment = args.Comment
		s.annotate(ctx, args.Room, comment)
	case action == ActionTurnOff:
		comment = args.Comment
		if comment == "" {
			comment = autoComment(req.UserName)
		}
		s.annotate(ctx, args.Room, comment)
	}

	return Reply{
		Text:       switchedText(service, args.Room, req.UserName, entityID, comment),
		Visibility: VisibilityInChannel,
	}, nil
}

// actuate issues the switch service call.
func (s *Service) actuate(ctx context.Context, action Action, entityID string) ([]byte, error) {
	if action == ActionTurnOn {
		return s.gateway.TurnOn(ctx, entityID)
	}
	return s.gateway.TurnOff(ctx, entityID)
}

// writeLogbook records the comment in the Home Assistant logbook.
// Failures are logged only.
func (s *Service) writeLogbook(ctx context.Context, room, service, entityID, comment string) {
	body, err := s.gateway.Logbook(ctx, homeassistant.LogbookEntry{
		Name:     fmt.Sprintf("Heizung %s (%s)", room, service),
		Message:  comment,
		EntityID: entityID,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "logbook entry failed", "room", room, "error", err)
		return
	}
	s.logResponse(ctx, http.MethodPost, "services/logbook/log", body)
}

// annotate sets the room's comment field. Failures are logged only.
func (s *Service) annotate(ctx context.Context, room, comment string) {
	entityID := commentEntity(room)
	body, err := s.gateway.SetText(ctx, entityID, comment)
	if err != nil {
		s.logger.WarnContext(ctx, "comment annotation failed", "room", room, "entity_id", entityID, "error", err)
		return
	}
	s.logResponse(ctx, http.MethodPost, "services/input_text/set_value", body)
}

// commentEntity is the input_text entity holding a room's heating comment.
func commentEntity(room string) string {
	return homeassistant.EntityID(homeassistant.DomainInputText, room+"_heizkommentar")
}

func (s *Service) recordSwitch(ctx context.Context, ev SwitchEvent) {
	if s.recorder == nil {
		return
	}
	ev.Time = s.now()
	s.recorder.RecordSwitch(ctx, ev)
}
