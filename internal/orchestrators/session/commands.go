package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/Alily223/red-knight/internal/clients/generation"
	"github.com/Alily223/red-knight/internal/engine"
	"github.com/Alily223/red-knight/internal/entities/game"
	"github.com/Alily223/red-knight/internal/errors"
	"github.com/Alily223/red-knight/internal/repositories/recipes"
	"github.com/Alily223/red-knight/internal/worldgen"
)

// gatherPool is the fixed resource pool the gather command draws from.
// Gorgonite is in the pool but rarely pans out.
var gatherPool = []string{"wood", "stone", "fiber", "herbs", "ore", game.ResourceGorgonite}

// dispatch routes a parsed command to its handler. The session mutex
// must be held.
func (o *orchestrator) dispatch(ctx context.Context, sess *Session, cmd *Command) []string {
	switch cmd.Verb {
	case VerbMove:
		return o.handleMove(ctx, sess, cmd.Args[0])
	case "look":
		return o.handleLook(sess)
	case "mount":
		return handleMount(sess, cmd.ArgText)
	case "dismount":
		return handleDismount(sess)
	case "board":
		return handleBoard(sess, cmd.ArgText)
	case "disembark":
		return handleDisembark(sess)
	case "teleport":
		return o.handleTeleport(ctx, sess, cmd.Args)
	case "acquire":
		return handleAcquire(sess, cmd.ArgText)
	case "fight":
		return o.handleFight(sess)
	case "search":
		return o.handleSearch(ctx, sess)
	case "gather":
		return o.handleGather(sess)
	case "discover":
		return o.handleDiscover(ctx, sess)
	case "craft":
		return o.handleCraft(ctx, sess, cmd.Args)
	case "buff":
		return o.handleBuff(sess, cmd.Args, false)
	case "debuff":
		return o.handleBuff(sess, cmd.Args, true)
	case "poison":
		return o.handlePoison(sess, cmd.Args)
	case "status":
		return handleStatus(sess)
	case "stats":
		return handleStats(sess)
	case "use":
		return o.handleUse(ctx, sess, cmd.ArgText)
	case "ability":
		return handleAbility(sess, cmd.ArgText)
	case "reputation", "rep":
		return handleReputation(sess, cmd.Args)
	case "gainrep":
		return handleRepChange(sess, cmd.Args, 1)
	case "loserep":
		return handleRepChange(sess, cmd.Args, -1)
	case "spend":
		return handleSpend(sess, cmd.Args)
	case "perk":
		return o.handlePerk(ctx, sess)
	case "ai":
		return o.handleAI(ctx, sess, cmd.ArgText)
	default:
		return []string{"Unknown command."}
	}
}

// visit plays out arrival at a coordinate: place creation on first
// visit, then the memoized encounter roll
func (o *orchestrator) visit(ctx context.Context, sess *Session, coord game.Coordinate) []string {
	key := coord.Key()

	place, seen := sess.places[key]
	if !seen {
		generated, err := o.generator.Location(ctx, key)
		if err != nil {
			generated = worldgen.LocationFor(coord.X, coord.Y)
		}
		sess.places[key] = generated
		place = generated
	}

	if sess.stats.PlacesVisited == nil {
		sess.stats.PlacesVisited = map[string]bool{}
	}
	sess.stats.PlacesVisited[place.Name] = true

	var lines []string
	if seen {
		lines = append(lines, "You return to "+place.Name+".")
	} else {
		lines = append(lines, "You discover "+place.Name+".")
	}
	lines = append(lines, place.Description)

	enc, err := sess.table.EncounterFor(coord)
	if err != nil {
		slog.Warn("encounter roll failed", "coordinate", key, "error", err)
		return lines
	}
	if enc.Kind == game.EncounterEnemy {
		lines = append(lines, "A "+enc.Name+" blocks your path!")
	}
	return lines
}

func (o *orchestrator) handleMove(ctx context.Context, sess *Session, direction string) []string {
	delta := game.Directions[direction]
	mult := sess.stats.SpeedMultiplier()

	sess.position.X += delta.X * mult
	sess.position.Y += delta.Y * mult

	var how string
	switch {
	case sess.stats.ActiveVehicle != "":
		how = fmt.Sprintf("You drive %s in the %s.", sess.stats.ActiveVehicle, direction)
	case sess.stats.ActiveMount != "":
		how = fmt.Sprintf("You ride %s %s.", sess.stats.ActiveMount, direction)
	default:
		how = "You head " + direction + "."
	}

	return append([]string{how}, o.visit(ctx, sess, sess.position)...)
}

func (o *orchestrator) handleLook(sess *Session) []string {
	place, ok := sess.places[sess.position.Key()]
	if !ok {
		return []string{"There is nothing remarkable here."}
	}

	lines := []string{place.Name, place.Description}
	if enc, found := sess.table.Existing(sess.position); found && enc.Kind == game.EncounterEnemy {
		lines = append(lines, "A "+enc.Name+" is here, watching you.")
	}
	return lines
}

func handleMount(sess *Session, name string) []string {
	if name == "" {
		return []string{"Usage: mount <name>"}
	}
	name = strings.ToLower(name)
	if !sess.stats.Mounts[name] {
		return []string{"You do not have a " + name + "."}
	}

	// Mount and vehicle are mutually exclusive
	sess.stats.ActiveVehicle = ""
	sess.stats.ActiveMount = name
	return []string{"You mount the " + name + ". You now travel twice as fast."}
}

func handleDismount(sess *Session) []string {
	if sess.stats.ActiveMount == "" {
		return []string{"You are not mounted."}
	}
	name := sess.stats.ActiveMount
	sess.stats.ActiveMount = ""
	return []string{"You dismount the " + name + "."}
}

func handleBoard(sess *Session, name string) []string {
	if name == "" {
		return []string{"Usage: board <name>"}
	}
	name = strings.ToLower(name)
	if !sess.stats.Vehicles[name] {
		return []string{"You do not have a " + name + "."}
	}

	sess.stats.ActiveMount = ""
	sess.stats.ActiveVehicle = name
	return []string{"You board the " + name + ". You now travel three times as fast."}
}

func handleDisembark(sess *Session) []string {
	if sess.stats.ActiveVehicle == "" {
		return []string{"You are not aboard anything."}
	}
	name := sess.stats.ActiveVehicle
	sess.stats.ActiveVehicle = ""
	return []string{"You disembark from the " + name + "."}
}

func (o *orchestrator) handleTeleport(ctx context.Context, sess *Session, args []string) []string {
	if len(args) != 2 {
		return []string{"Usage: teleport <x> <y>"}
	}
	x, errX := strconv.Atoi(args[0])
	y, errY := strconv.Atoi(args[1])
	if errX != nil || errY != nil {
		return []string{"Usage: teleport <x> <y>"}
	}

	if sess.stats.TeleportScrolls < 1 {
		return []string{"You have no teleport scrolls."}
	}
	sess.stats.TeleportScrolls--

	sess.position = game.Coordinate{X: x, Y: y}
	lines := []string{fmt.Sprintf("The scroll crumbles to ash. The world folds around you. (%d left)", sess.stats.TeleportScrolls)}
	return append(lines, o.visit(ctx, sess, sess.position)...)
}

func handleAcquire(sess *Session, what string) []string {
	switch strings.ToLower(what) {
	case "horse":
		sess.stats.Mounts["horse"] = true
		return []string{"You acquire a horse."}
	case "cart":
		sess.stats.Vehicles["cart"] = true
		return []string{"You acquire a cart."}
	case "scroll", "teleport scroll":
		sess.stats.TeleportScrolls++
		return []string{fmt.Sprintf("You acquire a teleport scroll. (%d held)", sess.stats.TeleportScrolls)}
	case "":
		return []string{"Usage: acquire <horse|cart|scroll>"}
	default:
		return []string{"You cannot acquire that."}
	}
}

func (o *orchestrator) handleFight(sess *Session) []string {
	enc, ok := sess.table.Existing(sess.position)
	if !ok || enc.Kind != game.EncounterEnemy {
		return []string{"There is nothing to fight here."}
	}

	sess.table.Resolve(sess.position)
	sess.stats.XP += 10

	lines := []string{"You defeat the " + enc.Name + "!"}
	if loot, err := o.roller.Roll(5); err == nil {
		sess.stats.Coins += loot
		lines = append(lines, fmt.Sprintf("You loot %d coins.", loot))
	}
	return lines
}

func (o *orchestrator) handleSearch(ctx context.Context, sess *Session) []string {
	item, err := o.generator.Item(ctx, sess.position.Key())
	if err != nil {
		return []string{"You search the area but find nothing."}
	}

	sess.stats.AddItem(item)
	lines := []string{"You find a " + item.Name + "! " + item.Description}

	// Occasional loose coins turn up too
	if chance, rollErr := o.roller.Roll(10); rollErr == nil && chance <= 3 {
		if coins, coinErr := o.roller.Roll(5); coinErr == nil {
			sess.stats.Coins += coins
			lines = append(lines, fmt.Sprintf("You also find %d coins.", coins))
		}
	}

	if sess.stats.Encumbered() {
		lines = append(lines, "You are overencumbered!")
	}
	return lines
}

func (o *orchestrator) handleGather(sess *Session) []string {
	pick, err := o.roller.Roll(len(gatherPool))
	if err != nil {
		return []string{"You find no useful materials."}
	}
	resource := gatherPool[pick-1]

	if resource == game.ResourceGorgonite {
		// Gorgonite is a 1-in-20 strike even when the vein is there
		chance, rollErr := o.roller.Roll(20)
		if rollErr != nil || chance < 20 {
			return []string{"You find no useful materials."}
		}
		sess.stats.AddResource(game.ResourceGorgonite, 1)
		return []string{"You pry loose a shard of gorgonite!"}
	}

	amount, err := o.roller.Roll(3)
	if err != nil {
		amount = 1
	}
	sess.stats.AddResource(resource, amount)
	return []string{fmt.Sprintf("You gather %d %s.", amount, resource)}
}

func (o *orchestrator) handleDiscover(ctx context.Context, sess *Session) []string {
	name, err := o.generator.Resource(ctx, sess.position.Key())
	if err != nil {
		return []string{"You discover nothing new."}
	}

	if sess.stats.Resources.Discovered == nil {
		sess.stats.Resources.Discovered = map[string]int{}
	}
	if _, known := sess.stats.Resources.Discovered[name]; known {
		return []string{"You already know of " + name + "."}
	}
	if _, held := sess.stats.Resources.Counts[name]; held {
		return []string{"You already know of " + name + "."}
	}

	sess.stats.Resources.Discovered[name] = 0
	return []string{"You have discovered " + name + "!"}
}

func (o *orchestrator) handleCraft(ctx context.Context, sess *Session, args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: craft <resource>:<amount> [<resource>:<amount> ...]"}
	}

	resources := make([]generation.ResourceAmount, 0, len(args))
	for _, arg := range args {
		name, amountText, hasAmount := strings.Cut(arg, ":")
		name = strings.ToLower(name)
		if name == "" {
			return []string{"Usage: craft <resource>:<amount> [<resource>:<amount> ...]"}
		}
		amount := 1
		if hasAmount {
			parsed, err := strconv.Atoi(amountText)
			if err != nil || parsed < 1 {
				return []string{"Usage: craft <resource>:<amount> [<resource>:<amount> ...]"}
			}
			amount = parsed
		}
		resources = append(resources, generation.ResourceAmount{Name: name, Amount: amount})
	}

	for _, r := range resources {
		if sess.stats.Resources.Counts[r.Name] < r.Amount {
			return []string{"You do not have enough " + r.Name + "."}
		}
	}

	combo := generation.CombinationKey(resources)
	crafted, cached := o.lookupRecipe(ctx, combo)
	if !cached {
		result, err := o.generator.Craft(ctx, resources)
		if err != nil {
			result = generation.FallbackCraft()
		}
		crafted = result
		if _, putErr := o.recipeRepo.Put(ctx, recipes.PutInput{Combo: combo, Item: &crafted}); putErr != nil {
			slog.Warn("failed to cache recipe", "combo", combo, "error", putErr)
		}
	}

	for _, r := range resources {
		sess.stats.ConsumeResource(r.Name, r.Amount)
	}
	sess.stats.AddItem(game.Item{
		Name:        crafted.Name,
		Description: crafted.Description,
		Weight:      crafted.Weight,
	})

	lines := []string{"You craft " + crafted.Name + ". " + crafted.Description}
	if sess.stats.Encumbered() {
		lines = append(lines, "You are overencumbered!")
	}
	return lines
}

func (o *orchestrator) lookupRecipe(ctx context.Context, combo string) (game.CraftedItem, bool) {
	out, err := o.recipeRepo.Get(ctx, recipes.GetInput{Combo: combo})
	if err != nil {
		if !errors.IsNotFound(err) {
			slog.Warn("recipe lookup failed", "combo", combo, "error", err)
		}
		return game.CraftedItem{}, false
	}
	return *out.Item, true
}

func (o *orchestrator) handleBuff(sess *Session, args []string, negative bool) []string {
	usage := "Usage: buff <stat> <value> <hours>"
	if negative {
		usage = "Usage: debuff <stat> <value> <hours>"
	}
	if len(args) != 3 {
		return []string{usage}
	}

	stat := strings.ToLower(args[0])
	if _, ok := sess.stats.Attributes[stat]; !ok {
		return []string{"Unknown stat: " + stat + "."}
	}
	value, errV := strconv.Atoi(args[1])
	hours, errH := strconv.Atoi(args[2])
	if errV != nil || errH != nil || value < 1 || hours < 1 {
		return []string{usage}
	}

	name := stat + "-buff"
	verdict := "You feel empowered."
	if negative {
		name = stat + "-debuff"
		value = -value
		verdict = "You feel weakened."
	}

	out := o.engine.ApplyBuff(sess.stats, &engine.ApplyBuffInput{
		Name:      name,
		Stat:      stat,
		Value:     value,
		Hours:     hours,
		Stackable: true,
	})

	return []string{fmt.Sprintf("%s %s %+d for %dh (x%d).",
		verdict, stat, out.Buff.CurrentValue, out.Buff.RemainingHours, out.Buff.Stacks)}
}

func (o *orchestrator) handlePoison(sess *Session, args []string) []string {
	if len(args) != 2 {
		return []string{"Usage: poison <damage> <hours>"}
	}
	damage, errD := strconv.Atoi(args[0])
	hours, errH := strconv.Atoi(args[1])
	if errD != nil || errH != nil || damage < 1 || hours < 1 {
		return []string{"Usage: poison <damage> <hours>"}
	}

	out := o.engine.ApplyStatusEffect(sess.stats, &engine.ApplyStatusEffectInput{
		Name:          game.EffectPoison,
		DamagePerHour: damage,
		Hours:         hours,
	})

	return []string{fmt.Sprintf("Poison seeps into your veins. %d damage per hour for %dh.",
		out.Effect.DamagePerHour, out.Effect.RemainingHours)}
}

func handleStatus(sess *Session) []string {
	lines := []string{}

	if len(sess.stats.Buffs) == 0 {
		lines = append(lines, "Buffs: none")
	} else {
		lines = append(lines, "Buffs:")
		for _, name := range sortedKeys(sess.stats.Buffs) {
			b := sess.stats.Buffs[name]
			lines = append(lines, fmt.Sprintf("  %s: %+d %s, %dh left (x%d)",
				b.Name, b.CurrentValue, b.Stat, b.RemainingHours, b.Stacks))
		}
	}

	if len(sess.stats.StatusEffects) == 0 {
		lines = append(lines, "Effects: none")
	} else {
		lines = append(lines, "Effects:")
		for _, name := range sortedKeys(sess.stats.StatusEffects) {
			e := sess.stats.StatusEffects[name]
			lines = append(lines, fmt.Sprintf("  %s: %d damage/hour, %dh left",
				e.Name, e.DamagePerHour, e.RemainingHours))
		}
	}

	return lines
}

func handleStats(sess *Session) []string {
	s := sess.stats
	return []string{
		fmt.Sprintf("Health %d | Coins %d | Level %d | XP %d | Perk points %d",
			s.Attributes[game.StatHealth], s.Coins, s.Level, s.XP, s.PerkPoints),
		fmt.Sprintf("Weight %d/%d | Scrolls %d | %s",
			s.Weight, s.CarryCapacity(), s.TeleportScrolls, game.TierName(s.TechTier)),
		fmt.Sprintf("Position %s | %s", sess.position.Key(), s.Time.String()),
	}
}

func (o *orchestrator) handleUse(ctx context.Context, sess *Session, what string) []string {
	if !strings.EqualFold(what, game.ResourceGorgonite) {
		return []string{"You cannot use that."}
	}
	if sess.stats.Resources.Counts[game.ResourceGorgonite] < 1 {
		return []string{"You have no gorgonite."}
	}

	name, description := o.gorgoniteAbility(ctx)

	// Exactly one shard is consumed whether generation answered or not
	sess.stats.ConsumeResource(game.ResourceGorgonite, 1)
	sess.stats.Abilities = append(sess.stats.Abilities, game.Ability{
		Name:        name,
		Description: description,
	})

	return []string{"The gorgonite dissolves into light. You gain the ability " + name + "!"}
}

// gorgoniteAbility asks generation for a name and then a description.
// Any failure along the way falls back to a placeholder ability derived
// from the moment the shard was consumed; a half-generated ability is
// never kept.
func (o *orchestrator) gorgoniteAbility(ctx context.Context) (string, string) {
	name, err := o.generator.Generate(ctx,
		"Invent a short name for a magical ability awakened by consuming raw gorgonite. Respond with only the name.")
	if err == nil {
		if name = firstLine(name); name != "" {
			description, descErr := o.generator.Generate(ctx,
				`Describe in one sentence the magical ability called "`+name+`".`)
			if descErr == nil {
				if description = firstLine(description); description != "" {
					return name, description
				}
			}
		}
	}

	now := o.clock.Now()
	return fmt.Sprintf("Gorgonite Surge %02d%02d", now.Hour(), now.Minute()),
		"Raw gorgonite power courses through you."
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func handleAbility(sess *Session, name string) []string {
	if name == "" {
		return []string{"Usage: ability <name>"}
	}
	ability := sess.stats.FindAbility(name)
	if ability == nil {
		return []string{"You do not possess that ability."}
	}
	return []string{"You invoke " + ability.Name + ". " + ability.Description}
}

func handleReputation(sess *Session, args []string) []string {
	rep := &sess.stats.Reputation

	if len(args) >= 2 {
		category := strings.ToLower(args[0])
		scores := rep.Category(category)
		if scores == nil {
			return []string{"Usage: reputation [<faction|guild|nation> <name>]"}
		}
		name := strings.Join(args[1:], " ")
		score, known := scores[name]
		if !known {
			return []string{"You have no reputation with " + name + "."}
		}
		return []string{fmt.Sprintf("%s (%s): %d", name, category, score)}
	}

	var lines []string
	for _, category := range game.ReputationCategories {
		scores := rep.Category(category)
		for _, name := range sortedKeys(scores) {
			lines = append(lines, fmt.Sprintf("%s (%s): %d", name, category, scores[name]))
		}
	}
	if len(lines) == 0 {
		return []string{"You have no reputation."}
	}
	return lines
}

// handleRepChange applies a signed reputation delta through a stats
// patch, so only the one named entry changes
func handleRepChange(sess *Session, args []string, sign int) []string {
	verb := "gainrep"
	if sign < 0 {
		verb = "loserep"
	}
	usage := "Usage: " + verb + " <faction|guild|nation> <name> [amount]"

	if len(args) < 2 {
		return []string{usage}
	}

	category := strings.ToLower(args[0])
	scores := sess.stats.Reputation.Category(category)
	if scores == nil {
		return []string{usage}
	}

	rest := args[1:]
	amount := 1
	if len(rest) > 1 {
		if parsed, err := strconv.Atoi(rest[len(rest)-1]); err == nil {
			if parsed < 1 {
				return []string{usage}
			}
			amount = parsed
			rest = rest[:len(rest)-1]
		}
	}
	name := strings.Join(rest, " ")
	if name == "" {
		return []string{usage}
	}

	updated := scores[name] + sign*amount
	sess.stats.Apply(&game.StatsPatch{
		Reputation: reputationPatch(category, name, updated),
	})

	return []string{fmt.Sprintf("Your reputation with %s (%s) is now %d.", name, category, updated)}
}

func reputationPatch(category, name string, score int) *game.ReputationPatch {
	entry := map[string]int{name: score}
	switch category {
	case "faction", "factions":
		return &game.ReputationPatch{Factions: entry}
	case "guild", "guilds":
		return &game.ReputationPatch{Guilds: entry}
	case "nation", "nations":
		return &game.ReputationPatch{Nations: entry}
	}
	return nil
}

func handleSpend(sess *Session, args []string) []string {
	if len(args) != 1 {
		return []string{"Usage: spend <amount>"}
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil || amount < 1 {
		return []string{"Usage: spend <amount>"}
	}

	if !sess.stats.SpendCoins(amount) {
		return []string{"Not enough coins."}
	}
	return []string{fmt.Sprintf("You spend %d coins. %d remain.", amount, sess.stats.Coins)}
}

func (o *orchestrator) handlePerk(ctx context.Context, sess *Session) []string {
	if sess.stats.PerkPoints < 1 {
		return []string{"You have no perk points."}
	}

	perk, err := o.generator.Perk(ctx, strconv.Itoa(len(sess.stats.Perks)))
	if err != nil {
		perk = generation.FallbackPerk(o.roller)
	}

	sess.stats.PerkPoints--
	applyPerk(sess.stats, perk)
	sess.stats.Perks = append(sess.stats.Perks, perk)

	return []string{"You gain the perk " + perk.Name + ": " + perk.Description}
}

// applyPerk folds a perk's bonus into the affected attribute. Number
// perks add flat; percentage perks scale the current value.
func applyPerk(stats *game.PlayerStats, perk game.Perk) {
	current := stats.Attributes[perk.Stat]
	switch perk.Type {
	case "percentage":
		stats.Attributes[perk.Stat] = current + current*perk.Value/100
	default:
		stats.Attributes[perk.Stat] = current + perk.Value
	}
}

func (o *orchestrator) handleAI(ctx context.Context, sess *Session, prompt string) []string {
	if prompt == "" {
		return []string{"Usage: ai <prompt>"}
	}

	text, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		return []string{"AI request failed."}
	}
	return []string{strings.TrimSpace(text)}
}

// sortedKeys returns map keys in stable order for display
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
