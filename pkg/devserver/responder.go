package devserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// CoachPrompt is the system prompt given to the language model.
const CoachPrompt = `Eres un asistente de entrenamiento para hablar en público.
Ayudas a practicar entrevistas laborales, presentaciones académicas y discursos profesionales.
Responde siempre en español, con frases breves y una pregunta concreta para seguir practicando.`

var errEmptyCompletion = errors.New("model returned no choices")

// Responder produces the assistant reply for one user message.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

// EchoResponder answers without a model. It is used when no API key is set.
type EchoResponder struct{}

// Reply implements Responder.
func (EchoResponder) Reply(_ context.Context, message string) (string, error) {
	return fmt.Sprintf("Has dicho: %q. Cuéntame más sobre la situación que quieres practicar.", strings.TrimSpace(message)), nil
}

// OpenAIResponder answers through the OpenAI chat completions API.
type OpenAIResponder struct {
	client *openai.Client
	model  string
	log    *logrus.Entry
}

// NewOpenAIResponder creates a responder. An empty model selects GPT-4o mini.
func NewOpenAIResponder(apiKey, model string) *OpenAIResponder {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIResponder{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    logrus.WithField("component", "devserver.openai"),
	}
}

// Reply implements Responder.
func (r *OpenAIResponder) Reply(ctx context.Context, message string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: CoachPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		r.log.WithError(err).Error("chat completion failed")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}

	reply := resp.Choices[0].Message.Content
	r.log.WithFields(logrus.Fields{
		"model":  r.model,
		"tokens": resp.Usage.TotalTokens,
	}).Debug("chat completion")
	return reply, nil
}
