// Package scpdoc holds the fixed service control policy document used
// when internal/mockorg fabricates test organizations. Grounded on
// original_source/orgcrawler/mock/org.py's POLICY_DOC constant.
package scpdoc

import "encoding/json"

// Statement is one statement of an SCP document.
type Statement struct {
	Sid      string `json:"Sid"`
	Effect   string `json:"Effect"`
	Action   string `json:"Action"`
	Resource string `json:"Resource"`
}

// Document is the shape of an AWS policy document.
type Document struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// MockAllowAll is the placeholder allow-all statement the mock builder
// attaches to every generated policy; its
// content is never inspected by the crawler or the query surface, only
// its presence as a valid SCP document.
var MockAllowAll = Document{
	Version: "2012-10-17",
	Statement: []Statement{
		{
			Sid:      "MockPolicyStatement",
			Effect:   "Allow",
			Action:   "*",
			Resource: "*",
		},
	},
}

// JSON renders MockAllowAll as the JSON string the
// organizations:CreatePolicy Content parameter expects.
func JSON() string {
	data, err := json.Marshal(MockAllowAll)
	if err != nil {
		panic(err)
	}
	return string(data)
}
