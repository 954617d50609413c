package controllers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"sqlify/backend/chat"
	"sqlify/backend/upstream"
	"sqlify/backend/utils"
)

// ChatController bridges free-text questions to the SQL-generation service
// and keeps the page's transcript.
type ChatController struct {
	API        *upstream.Client
	Transcript *chat.Transcript
}

func NewChatController(api *upstream.Client, transcript *chat.Transcript) *ChatController {
	return &ChatController{API: api, Transcript: transcript}
}

// Get renders the transcript.
func (cc *ChatController) Get(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{
		"messages": cc.Transcript.Messages(),
		"pending":  cc.Transcript.Pending(),
	})
}

type chatRequest struct {
	Question string `json:"question"`
}

// Send appends the user's question, forwards it, and appends exactly one
// bot reply (the generated query or an error line) plus one result block
// when the reply carried structured data. Blank input changes nothing.
func (cc *ChatController) Send(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if !cc.Transcript.AppendUser(req.Question) {
		return utils.Success(c, fiber.Map{
			"messages": cc.Transcript.Messages(),
			"pending":  false,
		})
	}

	reply, result, err := cc.API.Chat(c.UserContext(), req.Question)
	if err != nil {
		cc.Transcript.AppendReply("Server error.", "")
	} else {
		if reply == "" {
			reply = "Sorry, I didn't understand that."
		}
		cc.Transcript.AppendReply(reply, formatResult(result))
	}

	return utils.Success(c, fiber.Map{
		"messages": cc.Transcript.Messages(),
		"pending":  cc.Transcript.Pending(),
	})
}

// Clear drops the transcript, the page-unload analog.
func (cc *ChatController) Clear(c *fiber.Ctx) error {
	cc.Transcript.Clear()
	return utils.SuccessMessage(c, "transcript cleared")
}

func formatResult(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}
