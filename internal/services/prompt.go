package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResumeProfile is the resume summary sent to the model.
type ResumeProfile struct {
	Skills          []string       `json:"skills"`
	ExperienceYears *int           `json:"experience_years"`
	EducationLevel  string         `json:"education_level"`
	ParsedData      map[string]any `json:"parsed_data"`
}

// JobProfile is the job summary sent to the model.
type JobProfile struct {
	Title                string   `json:"title,omitempty"`
	Company              string   `json:"company,omitempty"`
	Description          string   `json:"description"`
	RequiredSkills       []string `json:"required_skills"`
	PreferredSkills      []string `json:"preferred_skills"`
	ExperienceLevel      string   `json:"experience_level,omitempty"`
	EducationRequirement string   `json:"education_requirement,omitempty"`
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeAnalysisPrompt asks for structured fields from raw resume text.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert resume analyzer. Analyze the following resume text and extract structured information.

RESUME:
%s

Return ONLY a JSON object with the following structure:
{
  "skills": ["skill1", "skill2"],
  "experience_years": <number>,
  "education_level": "<highest degree>",
  "work_experience": [
    {"company": "string", "position": "string", "duration": "string", "description": "string"}
  ],
  "education": [
    {"institution": "string", "degree": "string", "field": "string", "year": "string"}
  ],
  "contact_info": {"email": "string", "phone": "string", "location": "string"}
}`, resumeText)
}

// BuildJobAnalysisPrompt asks for structured requirements from a job description.
func (pb *PromptBuilder) BuildJobAnalysisPrompt(description string) string {
	return fmt.Sprintf(`You are an expert job description analyzer. Analyze the following job description and extract structured information.

JOB DESCRIPTION:
%s

Return ONLY a JSON object with the following structure:
{
  "required_skills": ["skill1", "skill2"],
  "preferred_skills": ["skill1", "skill2"],
  "experience_level": "entry/mid/senior",
  "education_requirement": "string",
  "key_responsibilities": ["resp1", "resp2"],
  "company_benefits": ["benefit1", "benefit2"],
  "job_type": "full-time/part-time/contract",
  "remote_option": "yes/no/hybrid"
}

Omit a field when the description does not mention it.`, description)
}

// BuildMatchScorePrompt asks for the composite score and its breakdown.
func (pb *PromptBuilder) BuildMatchScorePrompt(resume ResumeProfile, job JobProfile) string {
	return fmt.Sprintf(`You are an expert HR analyst. Calculate a match score between this resume and job description.

RESUME DATA:
%s

JOB DATA:
%s

Return ONLY a JSON object with the following structure:
{
  "overall_score": <number 0-100>,
  "skill_match_score": <number 0-100>,
  "experience_match_score": <number 0-100>,
  "education_match_score": <number 0-100>,
  "missing_skills": [
    {"skill": "string", "importance": "required/preferred", "suggestion": "string"}
  ],
  "strengths": ["strength1", "strength2"],
  "weaknesses": ["weakness1", "weakness2"],
  "overall_feedback": "<detailed feedback>"
}

Be objective. Reference concrete evidence from the resume.`, toIndentedJSON(resume), toIndentedJSON(job))
}

// BuildSuggestionsPrompt asks for resume edits conditioned on a score result.
func (pb *PromptBuilder) BuildSuggestionsPrompt(resume ResumeProfile, job JobProfile, analysis *MatchAnalysis) string {
	return fmt.Sprintf(`You are an expert resume coach. Based on this resume and job analysis, provide specific suggestions for improving the resume.

RESUME:
%s

JOB:
%s

MATCH ANALYSIS:
%s

Return ONLY a JSON array with this structure:
[
  {
    "section": "skills/experience/education/summary",
    "suggestion": "specific improvement suggestion",
    "priority": "high/medium/low",
    "impact": "explanation of how this helps"
  }
]`, toIndentedJSON(resume), toIndentedJSON(job), toIndentedJSON(analysis))
}

// BuildCoverLetterPrompt asks for a plain-text cover letter.
func (pb *PromptBuilder) BuildCoverLetterPrompt(resume ResumeProfile, job JobProfile, candidateName string) string {
	name := strings.TrimSpace(candidateName)
	if name == "" {
		name = "the candidate"
	}

	return fmt.Sprintf(`You are an expert cover letter writer. Generate a professional cover letter for %s based on their resume and the job description.

RESUME:
%s

JOB:
%s

The cover letter should:
- Be professional and engaging
- Highlight relevant skills and experiences
- Show enthusiasm for the role
- Be 3-4 paragraphs long
- Include a proper greeting and closing

Return ONLY the cover letter text, no JSON and no markdown.`, name, toIndentedJSON(resume), toIndentedJSON(job))
}

// BuildRecommendationQuery turns a resume into the text embedded for job search.
func (pb *PromptBuilder) BuildRecommendationQuery(resume ResumeProfile, resumeText string) string {
	var parts []string
	if len(resume.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(resume.Skills, ", "))
	}
	if resume.EducationLevel != "" {
		parts = append(parts, "Education: "+resume.EducationLevel)
	}
	if resume.ExperienceYears != nil {
		parts = append(parts, fmt.Sprintf("Experience: %d years", *resume.ExperienceYears))
	}
	if text := strings.TrimSpace(resumeText); text != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}

func toIndentedJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
