package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on inbound requests.
const AccessTokenHeaderName = "access_token"

// SystemActor is attributed to mutations that no logged-in user triggered,
// such as bootstrap steps.
const SystemActor = "system"

// DatetimeLayout is the canonical appointment datetime form.
const DatetimeLayout = "2006-01-02 15:04"
