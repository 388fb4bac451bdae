package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/wordageddon/wordageddon/internal/domain"
	"github.com/wordageddon/wordageddon/internal/service"
)

// PlayHandler handles play-related HTTP requests
type PlayHandler struct {
	playService *service.PlayService
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(playService *service.PlayService) *PlayHandler {
	return &PlayHandler{
		playService: playService,
	}
}

// StartPlayRequest is the payload for starting a play
type StartPlayRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

// SubmitAnswerRequest is the payload for answering one question
type SubmitAnswerRequest struct {
	QuestionIndex int `json:"question_index" validate:"min=0"`
	SelectedIndex int `json:"selected_index" validate:"min=0"`
}

// PublicQuestion is a question as shown to the player. The correct option
// index never leaves the server while the play is live.
type PublicQuestion struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// PlayResponse is the player-facing view of a play
type PlayResponse struct {
	ID            string           `json:"id"`
	Difficulty    string           `json:"difficulty"`
	Documents     []string         `json:"documents"`
	Questions     []PublicQuestion `json:"questions"`
	CurrentIndex  int              `json:"current_index"`
	AnsweredCount int              `json:"answered_count"`
	Completed     bool             `json:"completed"`
}

// AnswerResponse reports the outcome of one submitted answer
type AnswerResponse struct {
	Correct      bool                   `json:"correct"`
	CorrectIndex int                    `json:"correct_index"`
	Score        float64                `json:"score"`
	TotalScore   float64                `json:"total_score"`
	Completed    bool                   `json:"completed"`
	Summary      *domain.SessionSummary `json:"summary,omitempty"`
}

// GetDifficulties godoc
// @Summary List difficulty tiers
// @Description List the available difficulty tiers and their settings
// @Tags plays
// @Produce json
// @Success 200 {object} map[string]domain.DifficultySettings
// @Router /plays/difficulties [get]
func (h *PlayHandler) GetDifficulties(c echo.Context) error {
	return c.JSON(http.StatusOK, h.playService.Difficulties())
}

// StartPlay godoc
// @Summary Start a play
// @Description Start a new quiz play at the requested difficulty
// @Tags plays
// @Accept json
// @Produce json
// @Param play body StartPlayRequest true "Play parameters"
// @Success 201 {object} PlayResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /plays [post]
func (h *PlayHandler) StartPlay(c echo.Context) error {
	var req StartPlayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
		})
	}

	play, err := h.playService.StartPlay(c.Request().Context(), req.UserID, req.Difficulty)
	if err != nil {
		switch err {
		case domain.ErrUnknownDifficulty:
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Unknown difficulty",
			})
		case service.ErrCorpusEmpty:
			return c.JSON(http.StatusConflict, ErrorResponse{
				Error: "No documents have been indexed yet",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to start play",
			})
		}
	}

	return c.JSON(http.StatusCreated, playResponse(play))
}

// GetPlay godoc
// @Summary Get play state
// @Description Get the current state of an in-progress play
// @Tags plays
// @Produce json
// @Param play_id path string true "Play ID"
// @Success 200 {object} PlayResponse
// @Failure 404 {object} ErrorResponse
// @Router /plays/{play_id} [get]
func (h *PlayHandler) GetPlay(c echo.Context) error {
	playID := c.Param("play_id")

	play, err := h.playService.GetPlay(c.Request().Context(), playID)
	if err != nil {
		switch err {
		case service.ErrPlayNotFound:
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Play not found",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to get play",
			})
		}
	}

	return c.JSON(http.StatusOK, playResponse(play))
}

// GetCurrentPlay godoc
// @Summary Get a user's current play
// @Description Get the in-progress play of a user, if one exists
// @Tags plays
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} PlayResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{user_id}/play [get]
func (h *PlayHandler) GetCurrentPlay(c echo.Context) error {
	userID := c.Param("user_id")

	play, err := h.playService.CurrentPlayForUser(c.Request().Context(), userID)
	if err != nil {
		switch err {
		case service.ErrPlayNotFound:
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "No play in progress",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to get play",
			})
		}
	}

	return c.JSON(http.StatusOK, playResponse(play))
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Score one answer against an in-progress play
// @Tags plays
// @Accept json
// @Produce json
// @Param play_id path string true "Play ID"
// @Param answer body SubmitAnswerRequest true "Answer selection"
// @Success 200 {object} AnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /plays/{play_id}/answers [post]
func (h *PlayHandler) SubmitAnswer(c echo.Context) error {
	playID := c.Param("play_id")

	var req SubmitAnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
		})
	}

	result, err := h.playService.SubmitAnswer(c.Request().Context(), playID, req.QuestionIndex, req.SelectedIndex)
	if err != nil {
		switch err {
		case service.ErrPlayNotFound:
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Play not found",
			})
		case domain.ErrSessionCompleted:
			return c.JSON(http.StatusConflict, ErrorResponse{
				Error: "Play is already completed",
			})
		case domain.ErrQuestionOutOfRange, domain.ErrAnswerOutOfOrder, domain.ErrInvalidOptionIndex:
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to submit answer",
			})
		}
	}

	answer := result.Answer
	return c.JSON(http.StatusOK, AnswerResponse{
		Correct:      answer.IsCorrect(),
		CorrectIndex: answer.Question().CorrectIndex(),
		Score:        answer.ScoreContribution(),
		TotalScore:   result.TotalScore,
		Completed:    result.Completed,
		Summary:      result.Summary,
	})
}

// GetSummary godoc
// @Summary Get session summary
// @Description Get the persisted summary of a completed session
// @Tags plays
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} domain.SessionSummary
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{session_id} [get]
func (h *PlayHandler) GetSummary(c echo.Context) error {
	sessionID := c.Param("session_id")

	summary, err := h.playService.Summary(c.Request().Context(), sessionID)
	if err != nil {
		switch err {
		case domain.ErrPlayNotFound:
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Session not found",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to get session",
			})
		}
	}

	return c.JSON(http.StatusOK, summary)
}

// GetHistory godoc
// @Summary List a user's sessions
// @Description List a user's completed sessions, newest first
// @Tags plays
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Maximum number of sessions"
// @Success 200 {array} domain.SessionSummary
// @Failure 500 {object} ErrorResponse
// @Router /users/{user_id}/sessions [get]
func (h *PlayHandler) GetHistory(c echo.Context) error {
	userID := c.Param("user_id")
	limit := queryLimit(c, 20)

	summaries, err := h.playService.History(c.Request().Context(), userID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to get session history",
		})
	}

	return c.JSON(http.StatusOK, summaries)
}

// GetLeaderboard godoc
// @Summary Get the leaderboard
// @Description Get the all-time leaderboard ranked by total points
// @Tags plays
// @Produce json
// @Param limit query int false "Maximum number of entries"
// @Success 200 {array} domain.LeaderboardEntry
// @Failure 500 {object} ErrorResponse
// @Router /leaderboard [get]
func (h *PlayHandler) GetLeaderboard(c echo.Context) error {
	limit := queryLimit(c, 10)

	entries, err := h.playService.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to get leaderboard",
		})
	}

	return c.JSON(http.StatusOK, entries)
}

func playResponse(play *domain.Play) PlayResponse {
	sess := play.Session
	questions := make([]PublicQuestion, 0, sess.QuestionCount())
	for _, q := range sess.Questions() {
		questions = append(questions, PublicQuestion{
			Number:  q.Number(),
			Text:    q.Text(),
			Options: q.Options(),
		})
	}

	return PlayResponse{
		ID:            play.ID,
		Difficulty:    sess.Difficulty(),
		Documents:     play.Documents,
		Questions:     questions,
		CurrentIndex:  sess.CurrentQuestionIndex(),
		AnsweredCount: len(sess.Answers()),
		Completed:     sess.IsCompleted(),
	}
}

func queryLimit(c echo.Context, fallback int) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
