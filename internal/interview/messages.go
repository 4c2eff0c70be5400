package interview

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"prepcoach/internal/models"
)

const (
	welcomeText = "Welcome to your AI-powered technical interview!\n\n" +
		"I'm your AI interviewer, and I'll guide you through this process step by step.\n\n" +
		"Here's what we'll do:\n" +
		"1. Upload your resume (PDF or DOCX)\n" +
		"2. Collect any missing information\n" +
		"3. Complete 6 personalized technical questions\n" +
		"4. Receive your AI-powered evaluation\n\n" +
		"Let's get started!"
	uploadPromptText   = "Please upload your resume to begin. I'll analyze your skills and generate personalized interview questions tailored to your experience."
	analyzingText      = "Analyzing your resume with AI... This will help me create personalized interview questions tailored to your experience."
	personalizedText   = "Personalized interview questions generated based on your resume."
	manualInfoText     = "We'll collect some basic information manually."
	infoCompleteText   = "All information collected. Let's begin your interview."
	analyzingAnswer    = "Analyzing your response..."
	movingOnText       = "Thank you! Moving to next question..."
	timeUpText         = "Time's up!"
	generatingText     = "Interview completed. Generating evaluation report..."
	resultsFailedText  = "Error generating results. Contact support."
	feedbackPreviewLen = 200
)

var fieldLabels = map[string]string{
	models.FieldName:  "name",
	models.FieldEmail: "email",
	models.FieldPhone: "phone number",
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

func resumeUploadedText(name string) string {
	return "Resume uploaded: " + name
}

func analyzedText(skills []string) string {
	if len(skills) > 4 {
		skills = skills[:4]
	}
	return "Great! I've analyzed your resume using AI. Key Skills: " + strings.Join(skills, ", ")
}

func firstFieldPrompt(field string) string {
	return "Please provide your " + fieldLabel(field) + ":"
}

func nextFieldPrompt(field string) string {
	return "Thank you! Now please provide your " + fieldLabel(field) + ":"
}

func questionText(index, total int, q models.Question, aiGenerated bool) string {
	kind := "standard"
	if aiGenerated {
		kind = "AI-generated"
	}
	return fmt.Sprintf("Question %d of %d (%s): %s You have %d minutes. Type: %s",
		index, total, q.Difficulty, q.Question, q.TimeLimit/60, kind)
}

func evaluationText(e *models.Evaluation) string {
	feedback := []rune(e.Feedback)
	if len(feedback) > feedbackPreviewLen {
		feedback = feedback[:feedbackPreviewLen]
	}
	return fmt.Sprintf("AI Analysis: Score %s/100. Feedback: %s", formatScore(e.Score), string(feedback))
}

func completedText(r *models.CompletedResult) string {
	return fmt.Sprintf("Analysis Complete! Overall Score: %s/100. Recommendation: %s", formatScore(r.OverallScore), r.Recommendation)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
