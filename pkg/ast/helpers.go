package ast

import "strings"

// RootIdentifier returns the identifier at the base of a member or call
// chain: req for req.body.name, db for db.collection('x').find.
func RootIdentifier(n Node) (*Identifier, bool) {
	for {
		switch cur := n.(type) {
		case *Identifier:
			return cur, true
		case *MemberExpression:
			n = cur.Object
		case *CallExpression:
			n = cur.Callee
		default:
			return nil, false
		}
	}
}

// PropertyName returns the static property name of a member expression
// callee, or "" when n is not a member expression or the access is dynamic.
func PropertyName(n Node) string {
	m, ok := n.(*MemberExpression)
	if !ok {
		return ""
	}

	return m.Property
}

// IsIdentifier reports whether n is an identifier with the given name.
func IsIdentifier(n Node, name string) bool {
	id, ok := n.(*Identifier)

	return ok && id.Name == name
}

// IsMember reports whether n is object.property where object is the named
// identifier.
func IsMember(n Node, object, property string) bool {
	m, ok := n.(*MemberExpression)
	if !ok {
		return false
	}

	return m.Property == property && IsIdentifier(m.Object, object)
}

// MemberChain renders a dotted path for identifiers and static member
// accesses, for example "req.body.name". Other nodes render as "?".
func MemberChain(n Node) string {
	var parts []string

	for {
		switch cur := n.(type) {
		case *Identifier:
			parts = append(parts, cur.Name)

			return joinReversed(parts)
		case *MemberExpression:
			if cur.Property != "" {
				parts = append(parts, cur.Property)
			} else {
				parts = append(parts, "?")
			}

			n = cur.Object
		default:
			parts = append(parts, "?")

			return joinReversed(parts)
		}
	}
}

func joinReversed(parts []string) string {
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, ".")
}
