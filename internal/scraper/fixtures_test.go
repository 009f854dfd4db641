package scraper

const scoreboardXML = `
<results>
    <group>Group A</group>
    <region>Region 1</region>
    <last_change>2026-01-31</last_change>
    <league>Test League</league>
    <table>
        <team>
            <name>Team 1</name>
            <points positive="10" negative="2" />
            <sets positive="20" negative="5" />
            <balls positive="500" negative="400" />
            <games>5</games>
            <games_won>4</games_won>
        </team>
    </table>
</results>
`

const scheduleXML = `
<results>
    <group>Group A</group>
    <region>Region 1</region>
    <day_of_play>
        <game>
            <gamenr>101</gamenr>
            <date>2026-01-01</date>
            <new_date>-</new_date>
            <time>10:00</time>
            <team_a name="Team 1" points="2" sets="3" balls="75" />
            <team_b name="Team 2" points="1" sets="1" balls="50" />
            <state>Completed</state>
        </game>
    </day_of_play>
</results>
`
