package narrative

import (
	"context"
	"testing"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/narrative/mock"
	"go.uber.org/mock/gomock"
)

func gatedFragment(key string, reqs ...*models.Requirement) *models.Fragment {
	for _, r := range reqs {
		r.Active = true
	}
	return &models.Fragment{
		ID:           1,
		FragmentKey:  key,
		Title:        key,
		Content:      "...",
		Active:       true,
		Requirements: reqs,
	}
}

func Test_Evaluator_CanAccess(t *testing.T) {
	ctx := context.Background()
	userID := int64(42)

	type mocks struct {
		graph    *mock.MockGraphStore
		progress *mock.MockProgressStore
		ledger   *mock.MockLedger
		subs     *mock.MockSubscriptionService
	}

	tests := []struct {
		name        string
		fragment    *models.Fragment
		setup       func(m mocks)
		wantAllowed bool
		wantMessage string
		wantErr     bool
	}{
		{
			name:        "no requirements is open",
			fragment:    gatedFragment("open"),
			wantAllowed: true,
		},
		{
			name:     "vip requirement with active subscription",
			fragment: gatedFragment("vip", &models.Requirement{Kind: models.RequirementKindVIPStatus}),
			setup: func(m mocks) {
				m.subs.EXPECT().IsActiveSubscriber(gomock.Any(), userID).Return(true, nil)
			},
			wantAllowed: true,
		},
		{
			name:     "vip requirement without subscription",
			fragment: gatedFragment("vip", &models.Requirement{Kind: models.RequirementKindVIPStatus}),
			setup: func(m mocks) {
				m.subs.EXPECT().IsActiveSubscriber(gomock.Any(), userID).Return(false, nil)
			},
			wantMessage: "Este contenido es solo para VIP 💋",
		},
		{
			name: "custom rejection message wins over the default",
			fragment: gatedFragment("vip", &models.Requirement{
				Kind:             models.RequirementKindVIPStatus,
				RejectionMessage: "Vuelve cuando seas VIP",
			}),
			setup: func(m mocks) {
				m.subs.EXPECT().IsActiveSubscriber(gomock.Any(), userID).Return(false, nil)
			},
			wantMessage: "Vuelve cuando seas VIP",
		},
		{
			name:     "min besitos with enough balance",
			fragment: gatedFragment("rich", &models.Requirement{Kind: models.RequirementKindMinBesitos, Value: "50"}),
			setup: func(m mocks) {
				m.ledger.EXPECT().Balance(gomock.Any(), userID).Return(int64(50), nil)
			},
			wantAllowed: true,
		},
		{
			name:     "min besitos below balance",
			fragment: gatedFragment("rich", &models.Requirement{Kind: models.RequirementKindMinBesitos, Value: "50"}),
			setup: func(m mocks) {
				m.ledger.EXPECT().Balance(gomock.Any(), userID).Return(int64(30), nil)
			},
			wantMessage: "Necesitas al menos 50 besitos para continuar",
		},
		{
			name:     "malformed min besitos value is a hard error",
			fragment: gatedFragment("rich", &models.Requirement{Kind: models.RequirementKindMinBesitos, Value: "mucho"}),
			wantErr:  true,
		},
		{
			name:     "archetype requirement without progress row",
			fragment: gatedFragment("branch", &models.Requirement{Kind: models.RequirementKindArchetype, Value: models.ArchetypeImpulsive}),
			setup: func(m mocks) {
				m.progress.EXPECT().Progress(gomock.Any(), userID).Return(nil, nil)
			},
			wantMessage: "Este camino no es para ti... todavía",
		},
		{
			name:     "archetype requirement matching the detected label",
			fragment: gatedFragment("branch", &models.Requirement{Kind: models.RequirementKindArchetype, Value: models.ArchetypeContemplative}),
			setup: func(m mocks) {
				m.progress.EXPECT().Progress(gomock.Any(), userID).Return(&models.UserProgress{
					UserID:            userID,
					DetectedArchetype: models.ArchetypeContemplative,
				}, nil)
			},
			wantAllowed: true,
		},
		{
			name:     "decision taken requirement",
			fragment: gatedFragment("followup", &models.Requirement{Kind: models.RequirementKindDecisionTaken, Value: "encuentro_inicio"}),
			setup: func(m mocks) {
				m.progress.EXPECT().HasDecisionAt(gomock.Any(), userID, "encuentro_inicio").Return(true, nil)
			},
			wantAllowed: true,
		},
		{
			name:     "unknown requirement kind is a hard error",
			fragment: gatedFragment("odd", &models.Requirement{Kind: "phase_of_the_moon"}),
			wantErr:  true,
		},
		{
			name: "evaluation short-circuits on the first failure",
			fragment: gatedFragment("gauntlet",
				&models.Requirement{Kind: models.RequirementKindVIPStatus},
				&models.Requirement{Kind: models.RequirementKindMinBesitos, Value: "50"},
			),
			setup: func(m mocks) {
				// only the VIP check runs, the ledger is never consulted
				m.subs.EXPECT().IsActiveSubscriber(gomock.Any(), userID).Return(false, nil)
			},
			wantMessage: "Este contenido es solo para VIP 💋",
		},
		{
			name: "inactive requirements are ignored",
			fragment: &models.Fragment{
				FragmentKey: "stale",
				Active:      true,
				Requirements: []*models.Requirement{
					{Kind: models.RequirementKindVIPStatus, Active: false},
				},
			},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks{
				graph:    mock.NewMockGraphStore(ctrl),
				progress: mock.NewMockProgressStore(ctrl),
				ledger:   mock.NewMockLedger(ctrl),
				subs:     mock.NewMockSubscriptionService(ctrl),
			}
			m.graph.EXPECT().FragmentByKey(gomock.Any(), tt.fragment.FragmentKey).Return(tt.fragment, nil)
			if tt.setup != nil {
				tt.setup(m)
			}

			e := NewEvaluator(m.graph, m.progress, m.ledger, m.subs)
			allowed, message, err := e.CanAccess(ctx, userID, tt.fragment.FragmentKey)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Evaluator.CanAccess() error = %v, wantErr %v", err, tt.wantErr)
			}
			if allowed != tt.wantAllowed {
				t.Errorf("Evaluator.CanAccess() allowed = %v, want %v", allowed, tt.wantAllowed)
			}
			if message != tt.wantMessage {
				t.Errorf("Evaluator.CanAccess() message = %q, want %q", message, tt.wantMessage)
			}
		})
	}
}

func Test_Evaluator_CanAccess_missingFragment(t *testing.T) {
	graph := mock.NewMockGraphStore(gomock.NewController(t))
	graph.EXPECT().FragmentByKey(gomock.Any(), "ghost").Return(nil, nil)

	e := NewEvaluator(graph, nil, nil, nil)
	_, _, err := e.CanAccess(context.Background(), 42, "ghost")
	if !IsNotFound(err) {
		t.Errorf("Evaluator.CanAccess() error = %v, want NotFoundError", err)
	}
}
