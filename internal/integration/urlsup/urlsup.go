package urlsup

// Name is the wrapped binary. We deliberately enforce no run timeout of our
// own: request timeouts are delegated to urlsup via its --timeout flag.
const Name = "urlsup"
