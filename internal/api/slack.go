package api

import (
	"net/http"

	"github.com/slack-go/slack"

	"github.com/nerrad567/heizung-bridge/internal/heating"
)

// textCommandFailed answers a slash command whose handling panicked.
const textCommandFailed = "Befehl konnte nicht ausgeführt werden."

// slashResponse is the JSON body of a visible slash-command reply.
type slashResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// handleSlashCommand answers a Slack slash command.
//
// The response is always HTTP 200; the outcome is carried in the body only.
// An unparseable form is handed on as an empty request, which the command
// handler rejects like any other unauthorised call.
func (s *Server) handleSlashCommand(w http.ResponseWriter, r *http.Request) {
	var req heating.Request

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		s.logger.WarnContext(r.Context(), "unparseable slash command", "error", err)
	} else {
		req = heating.Request{
			Token:       cmd.Token,
			Command:     cmd.Command,
			ChannelName: cmd.ChannelName,
			Text:        cmd.Text,
			UserName:    cmd.UserName,
		}
	}

	reply := s.commands.Handle(r.Context(), req)
	writeReply(w, reply)
}

// writeReply writes a heating reply as plain text or Slack JSON.
func writeReply(w http.ResponseWriter, reply heating.Reply) {
	if !reply.IsJSON() {
		writeText(w, http.StatusOK, reply.Text)
		return
	}
	writeJSON(w, http.StatusOK, slashResponse{
		ResponseType: string(reply.Visibility),
		Text:         reply.Text,
	})
}
