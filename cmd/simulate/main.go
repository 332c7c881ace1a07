// Command simulate is a terminal harness for exercising the voice decision
// service without a phone system: it seeds in-memory records, reads simple
// commands from stdin, and prints the structured decisions the voice gateway
// would receive.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tiptonco/probation-scheduler/internal/appointments"
	appconfig "github.com/tiptonco/probation-scheduler/internal/config"
	"github.com/tiptonco/probation-scheduler/internal/probationers"
	"github.com/tiptonco/probation-scheduler/internal/schedule"
	"github.com/tiptonco/probation-scheduler/internal/voice"
	"github.com/tiptonco/probation-scheduler/pkg/logging"
)

const usage = `commands:
  context <phone>
  validate <phone> <rfc3339> <kind>
  next <phone> <kind>
  book <phone> <rfc3339> <kind>
  reschedule <phone> <rfc3339>
  checkin <phone>
  quit

kinds: walk_in, after_hours, phone_check_in, missed_reschedule
`

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.NewText(cfg.LogLevel)

	probRepo := probationers.NewInMemoryRepository()
	apptRepo := appointments.NewInMemoryRepository()
	seed(probRepo, apptRepo)

	policyStore := schedule.NewPolicyStore(nil)
	transitioner := appointments.NewTransitioner(apptRepo, logger, nil)
	service := voice.NewService(probRepo, apptRepo, transitioner, policyStore, cfg.OfficeID, logger, nil)

	fmt.Print(usage)
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" {
			return
		}
		run(ctx, service, fields)
	}
}

func run(ctx context.Context, service *voice.Service, fields []string) {
	switch fields[0] {
	case "context":
		if len(fields) != 2 {
			fmt.Print(usage)
			return
		}
		print2(service.CallerContext(ctx, fields[1], time.Now()))
	case "validate":
		phone, candidate, kind, ok := candidateArgs(fields)
		if !ok {
			return
		}
		print2(service.ValidateCandidate(ctx, phone, candidate, kind))
	case "next":
		if len(fields) != 3 {
			fmt.Print(usage)
			return
		}
		kind, ok := schedule.ParseRequestKind(fields[2])
		if !ok {
			fmt.Printf("unknown request kind %q\n", fields[2])
			return
		}
		print2(service.SuggestNextSlot(ctx, fields[1], time.Now(), kind))
	case "book":
		phone, candidate, kind, ok := candidateArgs(fields)
		if !ok {
			return
		}
		appt, verdict, err := service.Book(ctx, phone, candidate, kind)
		print2(map[string]any{"appointment": appt, "verdict": verdict}, err)
	case "reschedule":
		if len(fields) != 3 {
			fmt.Print(usage)
			return
		}
		candidate, err := time.Parse(time.RFC3339, fields[2])
		if err != nil {
			fmt.Printf("bad timestamp: %v\n", err)
			return
		}
		appt, verdict, err := service.RescheduleMissed(ctx, fields[1], candidate)
		print2(map[string]any{"appointment": appt, "verdict": verdict}, err)
	case "checkin":
		if len(fields) != 2 {
			fmt.Print(usage)
			return
		}
		appt, verdict, err := service.RecordCheckIn(ctx, fields[1], time.Now())
		print2(map[string]any{"appointment": appt, "verdict": verdict}, err)
	default:
		fmt.Print(usage)
	}
}

func candidateArgs(fields []string) (string, time.Time, schedule.RequestKind, bool) {
	if len(fields) != 4 {
		fmt.Print(usage)
		return "", time.Time{}, "", false
	}
	candidate, err := time.Parse(time.RFC3339, fields[2])
	if err != nil {
		fmt.Printf("bad timestamp: %v\n", err)
		return "", time.Time{}, "", false
	}
	kind, ok := schedule.ParseRequestKind(fields[3])
	if !ok {
		fmt.Printf("unknown request kind %q\n", fields[3])
		return "", time.Time{}, "", false
	}
	return fields[1], candidate, kind, true
}

func print2(v any, err error) {
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}

// seed loads a couple of recognizable callers, one of them with a missed
// appointment this month so the grace-period paths can be exercised.
func seed(probRepo *probationers.InMemoryRepository, apptRepo *appointments.InMemoryRepository) {
	loc, _ := time.LoadLocation(schedule.DefaultPolicy().Timezone)
	now := time.Now().In(loc)

	marcus := probRepo.Add(probationers.Probationer{
		FullName:   "Marcus Webb",
		CaseNumber: "TC-2024-0187",
		RiskLevel:  "medium",
		Phone:      "9015550142",
		Active:     true,
	})
	denise := probRepo.Add(probationers.Probationer{
		FullName:   "Denise Holt",
		CaseNumber: "TC-2023-0912",
		RiskLevel:  "low",
		Phone:      "9015550177",
		Active:     true,
	})

	ctx := context.Background()
	missed, _ := apptRepo.Create(ctx, marcus.ID,
		time.Date(now.Year(), now.Month(), 2, 9, 0, 0, 0, loc))
	_, _ = apptRepo.UpdateStatus(ctx, missed.ID, appointments.StatusMissed, missed.Version)

	_, _ = apptRepo.Create(ctx, denise.ID,
		time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, loc))
}
