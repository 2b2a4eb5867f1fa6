package handler

// --- Request / Response types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=PATIENT DOCTOR ADMIN"`
	Phone    string `json:"phone"    validate:"required"`
}

type registerResponse struct {
	UserID int64 `json:"userId"`
}

type loginRequest struct {
	LoginName string `json:"loginName" validate:"required"`
	Password  string `json:"password"  validate:"required"`
	LoginType string `json:"loginType" validate:"required,oneof=username phone doctor_code"`
	UserType  string `json:"userType"  validate:"omitempty,oneof=PATIENT DOCTOR ADMIN"`
}

type updateProfileRequest struct {
	Name     string `json:"name"     validate:"omitempty,max=128"`
	IDNumber string `json:"idNumber" validate:"omitempty,max=32"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
