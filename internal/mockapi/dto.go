package mockapi

// favoriteRequest is the body of POST /favorites.
type favoriteRequest struct {
	Type       string   `json:"type" validate:"required,oneof=world friend avatar"`
	FavoriteID string   `json:"favoriteId" validate:"required"`
	Tags       []string `json:"tags,omitempty"`
}

// moderationRequest is the body of POST /auth/user/playermoderations and
// PUT /auth/user/unplayermoderate.
type moderationRequest struct {
	Moderated string `json:"moderated" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=block showAvatar hideAvatar mute unmute"`
}

// updateUserRequest is the body of PUT /users/:id. Absent fields are left as is.
type updateUserRequest struct {
	Email             *string  `json:"email" validate:"omitempty,email"`
	Status            *string  `json:"status" validate:"omitempty,oneof='active' 'join me' 'ask me' 'busy' 'offline'"`
	StatusDescription *string  `json:"statusDescription" validate:"omitempty,max=32"`
	Bio               *string  `json:"bio" validate:"omitempty,max=512"`
	BioLinks          []string `json:"bioLinks" validate:"omitempty,max=3,dive,url"`
}

func (r updateUserRequest) record() Record {
	out := Record{}
	if r.Email != nil && *r.Email != "" {
		out["email"] = *r.Email
	}
	if r.Status != nil && *r.Status != "" {
		out["status"] = *r.Status
	}
	if r.StatusDescription != nil {
		out["statusDescription"] = *r.StatusDescription
	}
	if r.Bio != nil {
		out["bio"] = *r.Bio
	}
	if r.BioLinks != nil {
		out["bioLinks"] = r.BioLinks
	}
	return out
}
