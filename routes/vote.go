package routes

import (
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/policies"
	"github.com/campeloneto1/tripshare-sub000/services"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/kataras/iris/v12"
)

type CreateVoteQuestionInput struct {
	VotableType string                  `json:"votableType" validate:"required,oneof=day city"`
	VotableID   uint                    `json:"votableID" validate:"required"`
	Title       string                  `json:"title" validate:"required,max=160"`
	Type        string                  `json:"type" validate:"required,oneof=city event"`
	StartAt     time.Time               `json:"startAt" validate:"required"`
	EndAt       time.Time               `json:"endAt" validate:"required"`
	Options     []VoteQuestionOptionDTO `json:"options" validate:"required,min=1,dive"`
}

type VoteQuestionOptionDTO struct {
	PlaceID *uint   `json:"placeID"`
	Name    string  `json:"name" validate:"max=160"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	XID     string  `json:"xid" validate:"max=64"`
}

type CastVoteInput struct {
	OptionID uint `json:"optionID" validate:"required"`
}

func CreateVoteQuestion(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	var input CreateVoteQuestionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	serviceInput := services.CreateQuestionInput{
		VotableType: input.VotableType,
		VotableID:   input.VotableID,
		Title:       input.Title,
		Type:        input.Type,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
	}
	for _, option := range input.Options {
		serviceInput.Options = append(serviceInput.Options, services.CreateOptionInput{
			PlaceID: option.PlaceID,
			Name:    option.Name,
			Lat:     option.Lat,
			Lng:     option.Lng,
			XID:     option.XID,
		})
	}

	question, err := services.Votes.CreateQuestion(userID, serviceInput)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": question})
}

// ListVotableQuestions returns the questions attached to a day or city.
func ListVotableQuestions(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	votableType := ctx.Params().GetString("votableType")
	votableID := ctx.Params().GetUintDefault("votableId", 0)

	trip, err := policies.TripOfVotable(votableType, votableID)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanViewTrip(userID, trip) {
		utils.CreateForbidden(ctx)
		return
	}

	var questions []models.VoteQuestion
	if err := storage.DB.Preload("Options.Place").
		Where("votable_type = ? AND votable_id = ?", votableType, votableID).
		Order("created_at DESC").
		Find(&questions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": questions})
}

// GetVoteQuestion returns a question with per-option tallies.
func GetVoteQuestion(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	question, found := loadVoteQuestion(ctx)
	if !found {
		return
	}
	if !policies.CanViewVoteQuestion(userID, question) {
		utils.CreateForbidden(ctx)
		return
	}

	storage.DB.Preload("Options.Place").Preload("Answers").First(question, question.ID)

	counts := map[uint]int{}
	var ownAnswer *models.VoteAnswer
	for i := range question.Answers {
		counts[question.Answers[i].OptionID]++
		if question.Answers[i].UserID == userID {
			ownAnswer = &question.Answers[i]
		}
	}

	ctx.JSON(iris.Map{"success": true, "data": iris.Map{
		"question":  question,
		"counts":    counts,
		"ownAnswer": ownAnswer,
	}})
}

func UpdateVoteQuestion(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	var input struct {
		Title string     `json:"title" validate:"omitempty,max=160"`
		EndAt *time.Time `json:"endAt"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	question, err := services.Votes.UpdateQuestion(userID, id, input.Title, input.EndAt)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": question})
}

// DeleteVoteQuestion removes an open question before its deadline.
func DeleteVoteQuestion(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	if err := services.Votes.DeleteQuestion(userID, id); err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func CastVoteAnswer(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	var input CastVoteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	answer, err := services.Votes.CastAnswer(userID, id, input.OptionID)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": answer})
}

func ChangeVoteAnswer(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	var input CastVoteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	answer, err := services.Votes.ChangeAnswer(userID, id, input.OptionID)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": answer})
}

func RetractVoteAnswer(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	if err := services.Votes.RetractAnswer(userID, id); err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func loadVoteQuestion(ctx iris.Context) (*models.VoteQuestion, bool) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid question ID", ctx)
		return nil, false
	}
	var question models.VoteQuestion
	if err := storage.DB.First(&question, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}
	return &question, true
}
