package sessions

// Navigator moves the user to the login entry point. The gate and the request
// client call it when a session can no longer be used.
type Navigator interface {
	ToLogin(reason string)
}

// NavigatorFunc adapts a plain function to Navigator
type NavigatorFunc func(reason string)

func (f NavigatorFunc) ToLogin(reason string) {
	f(reason)
}

type noopNavigator struct{}

func (noopNavigator) ToLogin(string) {}
