package probe

import (
	"github.com/thomaselliottbetz/scim-sanity/pkg/factory"
	"github.com/thomaselliottbetz/scim-sanity/pkg/serverval"
	"github.com/thomaselliottbetz/scim-sanity/pkg/transport"
)

const (
	phaseUserCRUD               = "Phase 2 — User CRUD Lifecycle"
	phaseGroupCRUD              = "Phase 3 — Group CRUD Lifecycle"
	phaseAgentCRUD              = "Phase 4 — Agent CRUD Lifecycle"
	phaseAgenticApplicationCRUD = "Phase 5 — AgenticApplication CRUD Lifecycle"
	phaseAgentRapidLifecycle    = "Phase 5a — Agent Rapid Lifecycle"
)

func testUserLifecycle(client *transport.Transport, rv *serverval.Validator, created *[]CreatedResource) []Result {
	return crudLifecycle(client, rv, "User", "/Users", factory.MakeUser, phaseUserCRUD, created, "displayName")
}

func testGroupLifecycle(client *transport.Transport, rv *serverval.Validator, created *[]CreatedResource) []Result {
	makeGroup := func() map[string]interface{} { return factory.MakeGroup(nil) }
	return crudLifecycle(client, rv, "Group", "/Groups", makeGroup, phaseGroupCRUD, created, "displayName")
}

func testAgentLifecycle(client *transport.Transport, rv *serverval.Validator, created *[]CreatedResource) []Result {
	return crudLifecycle(client, rv, "Agent", "/Agents", factory.MakeAgent, phaseAgentCRUD, created, "displayName")
}

func testAgenticApplicationLifecycle(client *transport.Transport, rv *serverval.Validator, created *[]CreatedResource) []Result {
	return crudLifecycle(client, rv, "AgenticApplication", "/AgenticApplications", factory.MakeAgenticApplication, phaseAgenticApplicationCRUD, created, "displayName")
}
