package store

import "github.com/voxboard-ai/dashboard-core/internal/model"

// Known collection names. The query facade additionally accepts arbitrary
// collection names; only these receive demo content.
const (
	CollectionAgents            = "agents"
	CollectionCalls             = "calls"
	CollectionComplianceScripts = "complianceScripts"
	CollectionConversationFlows = "conversationFlows"
	CollectionKnowledgeBases    = "knowledgeBases"
	CollectionVideoSummaries    = "videoSummaries"
)

// KnownCollections lists every collection seeded on login.
func KnownCollections() []string {
	return []string{
		CollectionAgents,
		CollectionCalls,
		CollectionComplianceScripts,
		CollectionConversationFlows,
		CollectionKnowledgeBases,
		CollectionVideoSummaries,
	}
}

// Seed returns the canonical demo content for a collection. It is
// deterministic: seeding the same collection twice yields identical records.
// Unknown collections seed empty.
func Seed(collection string) []model.Record {
	switch collection {
	case CollectionAgents:
		return []model.Record{
			{
				"id":          "agent_demo_1",
				"name":        "Aria",
				"description": "Inbound support agent for billing questions",
				"voice":       "en-US-neural-f1",
				"language":    "en-US",
				"status":      "active",
				"created_at":  "2024-01-15T09:00:00Z",
				"version":     1,
			},
			{
				"id":          "agent_demo_2",
				"name":        "Marcus",
				"description": "Outbound appointment reminder agent",
				"voice":       "en-US-neural-m2",
				"language":    "en-US",
				"status":      "paused",
				"created_at":  "2024-01-12T14:30:00Z",
				"version":     1,
			},
		}
	case CollectionCalls:
		return []model.Record{
			{
				"id":           "call_demo_1",
				"agent_id":     "agent_demo_1",
				"phone_number": "+15550100123",
				"direction":    "inbound",
				"duration_sec": 184,
				"outcome":      "resolved",
				"created_at":   "2024-01-16T10:12:00Z",
				"version":      1,
			},
			{
				"id":           "call_demo_2",
				"agent_id":     "agent_demo_2",
				"phone_number": "+15550100456",
				"direction":    "outbound",
				"duration_sec": 47,
				"outcome":      "voicemail",
				"created_at":   "2024-01-16T11:45:00Z",
				"version":      1,
			},
		}
	case CollectionComplianceScripts:
		return []model.Record{
			{
				"id":         "complianceScript_demo_1",
				"name":       "TCPA disclosure",
				"content":    "This call may be recorded for quality and training purposes.",
				"region":     "US",
				"mandatory":  true,
				"created_at": "2024-01-10T08:00:00Z",
				"version":    1,
			},
		}
	case CollectionConversationFlows:
		return []model.Record{
			{
				"id":         "conversationFlow_demo_1",
				"name":       "Billing triage",
				"entry_node": "greeting",
				"nodes": []any{
					map[string]any{"id": "greeting", "type": "say", "next": "intent"},
					map[string]any{"id": "intent", "type": "classify", "next": "route"},
					map[string]any{"id": "route", "type": "transfer"},
				},
				"created_at": "2024-01-11T16:20:00Z",
				"version":    1,
			},
		}
	case CollectionKnowledgeBases:
		return []model.Record{
			{
				"id":             "knowledgeBase_demo_1",
				"name":           "Product FAQ",
				"document_count": 12,
				"status":         "indexed",
				"created_at":     "2024-01-09T12:00:00Z",
				"version":        1,
			},
		}
	case CollectionVideoSummaries:
		return []model.Record{
			{
				"id":           "videoSummary_demo_1",
				"title":        "Weekly ops review",
				"duration_sec": 95,
				"status":       "ready",
				"created_at":   "2024-01-14T17:05:00Z",
				"version":      1,
			},
		}
	default:
		return []model.Record{}
	}
}
