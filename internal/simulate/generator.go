package simulate

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/predictor/internal/adapters/http/auth"
	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/pkg/logger"
)

// Ranges for generated match facts. All of them pass API validation.
const (
	maxGoals        = 5
	maxMinute       = 90
	maxScorerID     = 22
	maxCorners      = 14
	minPossession   = 30
	possessionRange = 40
)

// randomInt returns a uniform int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// randomFacts returns match facts that pass the API's validation.
func randomFacts() model.MatchFacts {
	return model.MatchFacts{
		HomeScore:       randomInt(maxGoals + 1),
		AwayScore:       randomInt(maxGoals + 1),
		FirstGoalMinute: 1 + randomInt(maxMinute),
		FirstScorerID:   randomInt(maxScorerID + 1),
		Corners:         randomInt(maxCorners + 1),
		Possession:      minPossession + randomInt(possessionRange+1),
	}
}

// generateParticipants creates n participants with unique ids and signed tokens.
func generateParticipants(ctx context.Context, signer auth.JWT, n int) ([]Participant, error) {
	logger.Get().Info(ctx, "generating participants", logger.Int("participants", n))

	out := make([]Participant, n)
	for i := range out {
		id := uuid.NewString()
		name := fmt.Sprintf("sim-%04d", i)
		token, _, err := signer.Sign(auth.Claims{UserID: id, Username: name})
		if err != nil {
			return nil, fmt.Errorf("sign token for %s: %w", name, err)
		}
		out[i] = Participant{UserID: id, Username: name, Token: token}
	}
	return out, nil
}

// adminToken signs the token used for POST /admin/results.
func adminToken(signer auth.JWT) (string, error) {
	token, _, err := signer.Sign(auth.Claims{UserID: adminUserID, Username: "admin", IsAdmin: true})
	return token, err
}
