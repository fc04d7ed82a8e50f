package models

import "time"

// Verification lifecycle for farmer accounts. A declined farmer is purged,
// not recorded, so there is no declined value here.
const (
	VerificationPending     = "pending"
	VerificationUnderReview = "under_review"
	VerificationVerified    = "verified"
)

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	Role          []string  `json:"role" bson:"role"`
	FullName      string    `json:"full_name,omitempty" bson:"full_name,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Country       string    `json:"country,omitempty" bson:"country,omitempty"`
	Address       string    `json:"address,omitempty" bson:"address,omitempty"`
	IsVerified    bool      `json:"is_verified" bson:"is_verified"`
	Verification  string    `json:"verification_status,omitempty" bson:"verification_status,omitempty"`
	IDCardFront   string    `json:"id_card_front_url,omitempty" bson:"id_card_front_url,omitempty"`
	IDCardBack    string    `json:"id_card_back_url,omitempty" bson:"id_card_back_url,omitempty"`
	NationalID    string    `json:"national_id,omitempty" bson:"national_id,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	LastLogin     time.Time `json:"last_login" bson:"last_login"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
}

// ProfileResponse is the public shape returned by profile reads.
type ProfileResponse struct {
	UserID       string    `json:"userid" bson:"userid"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	Role         []string  `json:"role" bson:"role"`
	FullName     string    `json:"full_name,omitempty" bson:"full_name,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Country      string    `json:"country,omitempty" bson:"country,omitempty"`
	Address      string    `json:"address,omitempty" bson:"address,omitempty"`
	IsVerified   bool      `json:"is_verified" bson:"is_verified"`
	Verification string    `json:"verification_status,omitempty" bson:"verification_status,omitempty"`
	LastLogin    time.Time `json:"last_login" bson:"last_login"`
}
