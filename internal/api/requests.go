package api

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/royal-guard/royalguard/internal/app/family"
	"github.com/royal-guard/royalguard/internal/domain"
)

// ─── Request Bodies ─────────────────────────────────────────────────────────

var (
	genders      = []interface{}{string(domain.GenderMale), string(domain.GenderFemale)}
	habitKinds   = []interface{}{string(domain.HabitVeggie), string(domain.HabitProbiotics)}
	poopTypes    = []interface{}{string(domain.PoopHard), string(domain.PoopNormal), string(domain.PoopSoft), string(domain.PoopDiarrhea)}
	ticketTiers  = []interface{}{string(domain.TicketSilver), string(domain.TicketGold)}
	rewardTiers  = []interface{}{string(domain.TierCommon), string(domain.TierRare), string(domain.TierLegendary)}
	isDay        = validation.Date(domain.DayLayout)
	usernameRule = validation.Length(3, 32)
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type ChildSignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
}

func (req *ChildSignupRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required, usernameRule),
		validation.Field(&req.Password, validation.Required, validation.Length(4, 72)),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Age, validation.Min(0)),
		validation.Field(&req.Gender, validation.Required, validation.In(genders...)),
	)
}

func (req *ChildSignupRequest) signup() family.ChildSignup {
	return family.ChildSignup{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   domain.Gender(req.Gender),
	}
}

// ChildUpdateRequest edits a profile; omitted fields stay unchanged.
type ChildUpdateRequest struct {
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
}

func (req *ChildUpdateRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 50)),
		validation.Field(&req.Age, validation.Min(0)),
		validation.Field(&req.Gender, validation.NilOrNotEmpty, validation.In(genders...)),
	)
}

func (req *ChildUpdateRequest) update() family.ChildUpdate {
	u := family.ChildUpdate{Name: req.Name, Age: req.Age}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		u.Gender = &g
	}
	return u
}

type ParentSignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (req *ParentSignupRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required, usernameRule),
		validation.Field(&req.Password, validation.Required, validation.Length(4, 72)),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
	)
}

// WaterRequest sets a day's water count. An empty date means today.
type WaterRequest struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func (req *WaterRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Date, isDay),
		validation.Field(&req.Count, validation.Min(0), validation.Max(domain.DailyWaterGoal)),
	)
}

type HabitRequest struct {
	Date string `json:"date"`
	Kind string `json:"kind"`
}

func (req *HabitRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Date, isDay),
		validation.Field(&req.Kind, validation.Required, validation.In(habitKinds...)),
	)
}

type PoopRequest struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

func (req *PoopRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Date, isDay),
		validation.Field(&req.Type, validation.Required, validation.In(poopTypes...)),
	)
}

type GachaRequest struct {
	Tier string `json:"tier"`
}

func (req *GachaRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Tier, validation.Required, validation.In(ticketTiers...)),
	)
}

type RewardItemRequest struct {
	Title string `json:"title"`
	Tier  string `json:"tier"`
}

func (req *RewardItemRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.RuneLength(1, family.MaxRewardTitle)),
		validation.Field(&req.Tier, validation.Required, validation.In(rewardTiers...)),
	)
}
