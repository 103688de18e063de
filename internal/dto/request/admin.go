package request

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE BANNED SUSPENDED"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN EDITOR USER"`
}

type SetPublishedRequest struct {
	Published *bool `json:"published" validate:"required"`
}

type CampaignRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required"`
}

type SubscriberActionRequest struct {
	Action string `json:"action" validate:"required,oneof=unsubscribe resubscribe remove"`
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}
