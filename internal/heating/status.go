package heating

import (
	"context"
	"net/http"
	"strings"

	"github.com/nerrad567/heizung-bridge/internal/homeassistant"
)

// handleStatus runs the status flow.
//
// Without text every configured room is queried in configuration order.
// With text, the text is used as the sensor suffix as-is; it is not looked
// up in the room mapping.
func (s *Service) handleStatus(ctx context.Context, req Request) (Reply, error) {
	var sensors []string
	if text := strings.TrimSpace(req.Text); text != "" {
		sensors = []string{text}
	} else {
		sensors = s.rooms.Names()
	}

	results := make([]string, 0, len(sensors))
	for _, sensor := range sensors {
		results = append(results, s.queryStatus(ctx, sensor))
	}

	visibility := VisibilityEphemeral
	if req.ChannelName == s.channel {
		visibility = VisibilityInChannel
	}

	return Reply{
		Text:       strings.Join(results, "\n"),
		Visibility: visibility,
	}, nil
}

// queryStatus fetches one status sensor and returns its result line.
// A failure never aborts the batch; it yields a placeholder instead.
func (s *Service) queryStatus(ctx context.Context, sensor string) string {
	entityID := statusEntity(sensor)

	st, err := s.gateway.GetState(ctx, entityID)
	if err != nil {
		s.logger.WarnContext(ctx, "status query failed", "sensor", sensor, "entity_id", entityID, "error", err)
		s.recordStatus(ctx, StatusResult{Sensor: sensor, State: StatusFailed})
		return StatusFailed
	}
	s.logResponse(ctx, http.MethodGet, "states/"+entityID, st.Body)

	if !st.HasState {
		s.recordStatus(ctx, StatusResult{Sensor: sensor})
		return noResponseText(sensor)
	}

	s.recordStatus(ctx, StatusResult{Sensor: sensor, State: st.Value, OK: true})
	return st.Value
}

// statusEntity is the sensor entity reporting a room's heating status.
func statusEntity(suffix string) string {
	return homeassistant.EntityID(homeassistant.DomainSensor, "status_"+suffix)
}

func (s *Service) recordStatus(ctx context.Context, res StatusResult) {
	if s.recorder == nil {
		return
	}
	res.Time = s.now()
	s.recorder.RecordStatus(ctx, res)
}
