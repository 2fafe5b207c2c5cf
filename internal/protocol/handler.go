package protocol

import (
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	logger "github.com/starwell-project/voidvault/internal/logging"
	"github.com/starwell-project/voidvault/internal/session"
	"github.com/starwell-project/voidvault/internal/vault"
)

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type counterResponse struct {
	Counter *uint16 `json:"counter"`
}

type counterStatusResponse struct {
	Counter uint16 `json:"counter"`
	Status  string `json:"status"`
}

type sessionResponse struct {
	SavedCounter  uint16 `json:"saved_counter"`
	ActiveCounter uint16 `json:"active_counter"`
	MaxLength     uint16 `json:"max_length"`
	CharTypes     uint8  `json:"char_types"`
	Status        string `json:"status"`
}

type outputResponse struct {
	Output string `json:"output"`
}

// Handler runs one bridge conversation over a deriver and its session.
type Handler struct {
	deriver *vault.Deriver
	session *session.Session
	log     logger.Logger
}

// NewHandler binds a deriver and session for one conversation.
func NewHandler(deriver *vault.Deriver, sess *session.Session, log logger.Logger) *Handler {
	return &Handler{deriver: deriver, session: sess, log: log}
}

// Serve processes frames until FINALIZE or stream close. Sensitive
// per-conversation state is scrubbed on the way out.
func (h *Handler) Serve(r io.Reader, w io.Writer) error {
	defer h.deriver.Scrub()

	for {
		frame, err := ReadFrame(r)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		response, done := h.handle(frame)
		if response != nil {
			payload, err := json.Marshal(response)
			if err != nil {
				return err
			}
			if err := WriteFrame(w, payload); err != nil {
				return err
			}
		}
		if done {
			return nil
		}
	}
}

// handle dispatches one message and returns its response. A nil response
// means the message terminates the conversation silently.
func (h *Handler) handle(frame []byte) (response any, done bool) {
	if !gjson.ValidBytes(frame) {
		return errorResponse{Error: "Invalid message"}, false
	}

	message := gjson.ParseBytes(frame)
	command := message.Get("type")

	if !command.Exists() {
		return h.handleKeystroke(message), false
	}

	switch command.String() {
	case "INIT":
		h.deriver.Reset()
		return statusResponse{Status: "ready"}, false

	case "RESET":
		h.deriver.ClearFeedbacks()
		h.session.Reset()
		return statusResponse{Status: "reset"}, false

	case "FINALIZE":
		h.deriver.ClearFeedbacks()
		h.session.Finalize()
		return nil, true

	case "GET_COUNTER":
		domain := message.Get("domain").String()
		if domain == "" {
			return errorResponse{Error: "Missing domain"}, false
		}
		if counter, known := h.session.Counter(domain); known {
			return counterResponse{Counter: &counter}, false
		}
		return counterResponse{}, false

	case "ACTIVATE":
		return h.handleActivate(message, false), false

	case "ACTIVATE_PREVIEW":
		return h.handleActivate(message, true), false

	case "SET_COUNTER":
		domain := message.Get("domain").String()
		if domain == "" {
			return errorResponse{Error: "Missing domain"}, false
		}
		counter := uint16(message.Get("counter").Uint())
		snapped, err := h.session.SetCounter(domain, counter)
		if err != nil {
			return errorResponse{Error: err.Error()}, false
		}
		if snapped {
			h.deriver.ClearFeedbacks()
		}
		return statusResponse{Status: "success"}, false

	case "SET_RULES":
		domain := message.Get("domain").String()
		if domain == "" {
			return errorResponse{Error: "Missing domain"}, false
		}
		maxLength := uint16(message.Get("max_length").Uint())
		charTypes := uint8(message.Get("char_types").Uint())
		if err := h.session.SetRules(domain, maxLength, charTypes); err != nil {
			return errorResponse{Error: err.Error()}, false
		}
		return statusResponse{Status: "success"}, false

	case "COMMIT_INCREMENT":
		domain := message.Get("domain").String()
		if domain == "" {
			return errorResponse{Error: "Missing domain"}, false
		}
		counter, err := h.session.CommitIncrement(domain)
		if err != nil {
			return errorResponse{Error: "Not in preview mode"}, false
		}
		return counterStatusResponse{Counter: counter, Status: "committed"}, false

	case "CANCEL_PREVIEW":
		counter, err := h.session.CancelPreview()
		if err != nil {
			return errorResponse{Error: "Not in preview mode"}, false
		}
		h.deriver.ClearFeedbacks()
		return counterStatusResponse{Counter: counter, Status: "cancelled"}, false

	default:
		h.log.Debugf("unknown bridge command %q", command.String())
		return errorResponse{Error: "Unknown command"}, false
	}
}

func (h *Handler) handleActivate(message gjson.Result, preview bool) any {
	domain := message.Get("domain").String()
	if domain == "" {
		return errorResponse{Error: "Missing domain"}
	}

	h.deriver.ClearFeedbacks()

	var info session.Info
	var err error
	if preview {
		info, err = h.session.ActivatePreview(domain)
	} else {
		info, err = h.session.Activate(domain)
	}
	if err != nil {
		return errorResponse{Error: err.Error()}
	}

	status := "ready"
	if info.Preview {
		status = "preview"
	}
	return sessionResponse{
		SavedCounter:  info.SavedCounter,
		ActiveCounter: info.ActiveCounter,
		MaxLength:     info.MaxLength,
		CharTypes:     info.CharTypes,
		Status:        status,
	}
}

func (h *Handler) handleKeystroke(message gjson.Result) any {
	keycode := uint32(message.Get("charCode").Uint())
	if keycode == 0 {
		return errorResponse{Error: "Unknown command"}
	}

	codes := h.deriver.Derive(keycode)

	var out strings.Builder
	for _, code := range codes {
		if r := rune(code); utf8.ValidRune(r) {
			out.WriteRune(r)
		}
	}
	return outputResponse{Output: out.String()}
}
