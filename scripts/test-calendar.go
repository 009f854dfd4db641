package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/dieliga/internal/calendar"
	"github.com/pfrederiksen/dieliga/internal/scraper"
)

// A sample match plan in the upstream format
const sampleSchedule = `<results>
	<group>Sample Group</group>
	<region>Sporthalle Nord</region>
	<day_of_play>
		<game>
			<gamenr>1</gamenr><date>2026-03-15</date><new_date>-</new_date><time>18:30</time>
			<team_a name="Team 1"/><team_b name="Team 2"/>
			<state>planned</state>
		</game>
		<game>
			<gamenr>2</gamenr><date>2026-03-22</date><new_date>2026-03-29</new_date><time>19:00</time>
			<team_a name="Team 3"/><team_b name="Team 1"/>
			<state>planned</state>
		</game>
	</day_of_play>
</results>`

func main() {
	schedule, err := scraper.ParseSchedule(sampleSchedule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing schedule: %v\n", err)
		os.Exit(1)
	}

	// Generate .ics file
	events := calendar.Build(schedule, "Team 1", schedule.Region, time.Local)
	icsContent := calendar.GenerateICS("sample", events, time.Now())

	// Write to file (owner read/write only for security)
	filename := "test-dieliga.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file with %d matches: %s\n\n", len(events), filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
