package eatery

// HealthCheck asks the service behind subject for its health. Over HTTP the
// subject only determines the path.
func HealthCheck(ctx *Context, client *Client, subject string) (*Health, error) {
	req, err := NewReqBuilder().
		Get(SubjectToUrl(subject, "health")).
		Subject(subject).
		Build()
	if err != nil {
		return nil, err
	}

	resp := &Health{}
	err = client.SendAndReceiveJson(ctx, req, resp)
	return resp, err
}
