package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	config "github.com/otienodev/course_market/configs"
	"google.golang.org/api/option"
)

const socraticPrompt = `You are an AI tutor that always teaches using the Socratic method.
You never directly answer questions. Instead, you guide the user with probing questions
to help them think critically and arrive at the answer themselves.

You must:
- Always ask at least 2-3 guiding questions before providing any explanation.
- Never give a direct answer unless the user has attempted to answer your questions.
- Adjust your follow-up questions based on the user's responses.

This approach applies to ALL topics, including recursion, algorithms, and more.
Stick to the Socratic method at all times.`

var ErrTutorUnavailable = errors.New("tutor service is not configured")

type TutorService struct {
	client *genai.Client
	model  *genai.GenerativeModel

	mu sync.Mutex
	// Per-user conversation history, in memory only; resets on restart.
	histories map[uuid.UUID][]*genai.Content
}

var Tutor *TutorService

func InitTutorService() {
	apiKey := config.Config("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("⚠️ Tutor service not configured. Missing GEMINI_API_KEY.")
		Tutor = nil
		return
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("🔥 Failed to initialize tutor client: %v", err)
		Tutor = nil
		return
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	temp := float32(0.7)
	model.Temperature = &temp
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(socraticPrompt)},
	}

	Tutor = &TutorService{
		client:    client,
		model:     model,
		histories: make(map[uuid.UUID][]*genai.Content),
	}
	log.Println("✅ Tutor service initialized successfully.")
}

// Ask forwards the user's question together with their running
// conversation history and stores the exchange for the next turn.
func (s *TutorService) Ask(ctx context.Context, userID uuid.UUID, query string) (string, error) {
	s.mu.Lock()
	history := s.histories[userID]
	s.mu.Unlock()

	chat := s.model.StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, genai.Text(query))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from model")
	}

	reply, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response part from model")
	}

	s.mu.Lock()
	s.histories[userID] = chat.History
	s.mu.Unlock()

	return string(reply), nil
}
