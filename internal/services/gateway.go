package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"alfredoptarigan/skillsync/internal/models"
)

// ErrAIUnavailable marks every failure of the AI gateway: transport errors,
// empty replies and replies that are not the requested JSON shape.
var ErrAIUnavailable = errors.New("ai service unavailable")

const (
	tempExtraction  float32 = 0.1
	tempScoring     float32 = 0.2
	tempSuggestions float32 = 0.3
	tempCoverLetter float32 = 0.4
)

type ResumeAnalysis struct {
	Skills          []string `json:"skills"`
	ExperienceYears *float64 `json:"experience_years"`
	EducationLevel  string   `json:"education_level"`

	// Raw keeps the full reply, including fields not modelled above.
	Raw map[string]any `json:"-"`
}

// JobAnalysis leaves a field nil when the model omitted it.
type JobAnalysis struct {
	RequiredSkills       []string `json:"required_skills"`
	PreferredSkills      []string `json:"preferred_skills"`
	ExperienceLevel      *string  `json:"experience_level"`
	EducationRequirement *string  `json:"education_requirement"`
	JobType              *string  `json:"job_type"`
}

type MissingSkill struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
	Suggestion string `json:"suggestion"`
}

type MatchAnalysis struct {
	OverallScore         float64        `json:"overall_score"`
	SkillMatchScore      float64        `json:"skill_match_score"`
	ExperienceMatchScore float64        `json:"experience_match_score"`
	EducationMatchScore  float64        `json:"education_match_score"`
	MissingSkills        []MissingSkill `json:"missing_skills"`
	Strengths            []string       `json:"strengths"`
	Weaknesses           []string       `json:"weaknesses"`
	OverallFeedback      string         `json:"overall_feedback"`
}

type AIGateway interface {
	AnalyzeResume(ctx context.Context, resumeText string) (*ResumeAnalysis, error)
	AnalyzeJob(ctx context.Context, description string) (*JobAnalysis, error)
	ScoreMatch(ctx context.Context, resume ResumeProfile, job JobProfile) (*MatchAnalysis, error)
	SuggestImprovements(ctx context.Context, resume ResumeProfile, job JobProfile, analysis *MatchAnalysis) ([]models.ResumeSuggestion, error)
	WriteCoverLetter(ctx context.Context, resume ResumeProfile, job JobProfile, candidateName string) (string, error)
}

type aiGateway struct {
	llm           LLMClient
	promptBuilder *PromptBuilder
	limiter       *rate.Limiter
	maxAttempts   int
}

// NewAIGateway wraps llm with prompt rendering, outbound rate limiting,
// retries and JSON parsing. requestsPerSecond <= 0 disables the limiter.
func NewAIGateway(llm LLMClient, requestsPerSecond float64, maxAttempts int) AIGateway {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	burst := int(math.Ceil(requestsPerSecond))
	if burst < 1 {
		burst = 1
	}

	return &aiGateway{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		limiter:       rate.NewLimiter(limit, burst),
		maxAttempts:   maxAttempts,
	}
}

func (g *aiGateway) AnalyzeResume(ctx context.Context, resumeText string) (*ResumeAnalysis, error) {
	response, err := g.complete(ctx, "resume analysis", g.promptBuilder.BuildResumeAnalysisPrompt(resumeText), tempExtraction)
	if err != nil {
		return nil, err
	}

	var result ResumeAnalysis
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("%w: resume analysis: %v", ErrAIUnavailable, err)
	}
	if err := parseJSONResponse(response, &result.Raw); err != nil {
		return nil, fmt.Errorf("%w: resume analysis: %v", ErrAIUnavailable, err)
	}

	return &result, nil
}

func (g *aiGateway) AnalyzeJob(ctx context.Context, description string) (*JobAnalysis, error) {
	response, err := g.complete(ctx, "job analysis", g.promptBuilder.BuildJobAnalysisPrompt(description), tempExtraction)
	if err != nil {
		return nil, err
	}

	var result JobAnalysis
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("%w: job analysis: %v", ErrAIUnavailable, err)
	}

	return &result, nil
}

func (g *aiGateway) ScoreMatch(ctx context.Context, resume ResumeProfile, job JobProfile) (*MatchAnalysis, error) {
	response, err := g.complete(ctx, "match scoring", g.promptBuilder.BuildMatchScorePrompt(resume, job), tempScoring)
	if err != nil {
		return nil, err
	}

	var result MatchAnalysis
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("%w: match scoring: %v", ErrAIUnavailable, err)
	}

	result.OverallScore = clampScore(result.OverallScore)
	result.SkillMatchScore = clampScore(result.SkillMatchScore)
	result.ExperienceMatchScore = clampScore(result.ExperienceMatchScore)
	result.EducationMatchScore = clampScore(result.EducationMatchScore)

	skills := result.MissingSkills[:0]
	for _, skill := range result.MissingSkills {
		skill.Skill = strings.TrimSpace(skill.Skill)
		if skill.Skill == "" {
			continue
		}
		skill.Importance = strings.ToLower(strings.TrimSpace(skill.Importance))
		skills = append(skills, skill)
	}
	result.MissingSkills = skills

	return &result, nil
}

func (g *aiGateway) SuggestImprovements(ctx context.Context, resume ResumeProfile, job JobProfile, analysis *MatchAnalysis) ([]models.ResumeSuggestion, error) {
	response, err := g.complete(ctx, "resume suggestions", g.promptBuilder.BuildSuggestionsPrompt(resume, job, analysis), tempSuggestions)
	if err != nil {
		return nil, err
	}

	var suggestions []models.ResumeSuggestion
	if err := parseJSONResponse(response, &suggestions); err != nil {
		return nil, fmt.Errorf("%w: resume suggestions: %v", ErrAIUnavailable, err)
	}

	return suggestions, nil
}

func (g *aiGateway) WriteCoverLetter(ctx context.Context, resume ResumeProfile, job JobProfile, candidateName string) (string, error) {
	response, err := g.complete(ctx, "cover letter", g.promptBuilder.BuildCoverLetterPrompt(resume, job, candidateName), tempCoverLetter)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(response), nil
}

func (g *aiGateway) complete(ctx context.Context, task, prompt string, temperature float32) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrAIUnavailable, task, err)
	}

	log.WithFields(log.Fields{
		"task":          task,
		"provider":      g.llm.Name(),
		"prompt_length": len(prompt),
	}).Debug("📝 Sending prompt")

	response, err := GenerateTextWithRetry(ctx, g.llm, prompt, temperature, g.maxAttempts)
	if err != nil {
		log.WithField("task", task).Errorf("❌ AI request failed: %v", err)
		return "", fmt.Errorf("%w: %s: %v", ErrAIUnavailable, task, err)
	}

	if strings.TrimSpace(response) == "" {
		return "", fmt.Errorf("%w: %s: empty response", ErrAIUnavailable, task)
	}

	return response, nil
}

func parseJSONResponse(response string, target any) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON strips markdown fences and surrounding prose from a model reply.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	// Prefer whichever bracket opens first, so an array of objects stays an array.
	if startArr != -1 && endArr > startArr && (startObj == -1 || startArr < startObj) {
		return text[startArr : endArr+1]
	}
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return strings.TrimSpace(text)
}

func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
