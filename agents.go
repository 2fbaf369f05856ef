package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/skillnest/internal/logger"
)

const advisorName = "career_advisor"

func GetAgent(ctx context.Context, apiKey, modelName, agentName string) (agent.Agent, error) {
	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %v", err)
	}

	customAgent, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Plan how to close a career skill gap",
		Instruction: prompt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %v", err)
	}

	return customAgent, err
}

// CareerAdvice is the plan the advisor must return.
type CareerAdvice struct {
	Career   string `json:"career"`
	Summary  string `json:"summary"`
	Priority []struct {
		Skill  string `json:"skill"`
		Reason string `json:"reason"`
		Weeks  int    `json:"weeks"`
	} `json:"priority"`
	Milestones []string `json:"milestones"`
}

// CareerAdvisor asks a Gemini agent for a study plan. Each call runs in its
// own throwaway agent session.
type CareerAdvisor struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
	logger   *zap.Logger
	attempts int
	backoff  time.Duration
}

func NewCareerAdvisor(ctx context.Context, apiKey, model string, lg *zap.Logger) (*CareerAdvisor, error) {
	advisor, err := GetAgent(ctx, apiKey, model, advisorName)
	if err != nil {
		return nil, err
	}
	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        advisor.Name(),
		Agent:          advisor,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	return &CareerAdvisor{
		runner:   r,
		sessions: sessions,
		appName:  advisor.Name(),
		logger:   lg,
		attempts: 2,
		backoff:  time.Second,
	}, nil
}

func adviceMessage(career string, acquired, missing []string) string {
	list := func(s []string) string {
		if len(s) == 0 {
			return "none"
		}
		return strings.Join(s, ", ")
	}
	return fmt.Sprintf(
		"Target Career:\n%s\n\nSkills I have:\n%s\n\nSkills I am missing:\n%s",
		career,
		list(acquired),
		list(missing),
	)
}

// parseAdvice cleans the raw model output and checks it is a CareerAdvice document.
func parseAdvice(raw string) (string, error) {
	cleaned := CleanJson(raw)
	var advice CareerAdvice
	if err := json.Unmarshal([]byte(cleaned), &advice); err != nil {
		return "", fmt.Errorf("advisor returned invalid json: %w", err)
	}
	if advice.Summary == "" && len(advice.Priority) == 0 {
		return "", fmt.Errorf("advisor returned an empty plan")
	}
	return cleaned, nil
}

func (a *CareerAdvisor) Advise(ctx context.Context, userID int64, career string, acquired, missing []string) (string, error) {
	agentSession, err := a.sessions.Create(ctx, &session.CreateRequest{
		AppName:   a.appName,
		UserID:    strconv.FormatInt(userID, 10),
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	defer func() {
		err := a.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   agentSession.Session.AppName(),
			UserID:    agentSession.Session.UserID(),
			SessionID: agentSession.Session.ID(),
		})
		if err != nil {
			a.logger.Warn("failed to delete agent session", zap.Error(err))
		}
	}()

	msg := adviceMessage(career, acquired, missing)
	return retry(ctx, a.attempts, a.backoff, func() (string, error) {
		stream := a.runner.Run(ctx, agentSession.Session.UserID(), agentSession.Session.ID(), &genai.Content{
			Role: "user",
			Parts: []*genai.Part{
				{Text: msg},
			},
		}, agent.RunConfig{})

		var output string
		for event, err := range stream {
			if err != nil {
				return "", err
			}
			if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
				output = event.Content.Parts[0].Text
			}
		}
		if output == "" {
			return "", fmt.Errorf("empty agent response")
		}
		a.logger.Debug("advisor output", zap.String("preview", logger.TruncateForLog(output, 200)))
		return parseAdvice(output)
	})
}
