package domain

// Namespace is one logical real-time surface. A user holds at most one
// connection per namespace but may be connected to several namespaces at once.
type Namespace string

const (
	NamespaceDM       Namespace = "dm"
	NamespaceChannels Namespace = "channels"
	NamespaceFriends  Namespace = "friends"
)

var Namespaces = []Namespace{NamespaceDM, NamespaceChannels, NamespaceFriends}

func (n Namespace) String() string { return string(n) }
