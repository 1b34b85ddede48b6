package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/pharmakit/pkg/cart"
	"github.com/dmitrymomot/pharmakit/pkg/money"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/svc/auth"
	"github.com/dmitrymomot/pharmakit/svc/catalog"
	"github.com/dmitrymomot/pharmakit/svc/guard"
	"github.com/dmitrymomot/pharmakit/svc/orders"
	"github.com/dmitrymomot/pharmakit/svc/users"
)

var errUsage = errors.New("shell.usage")

type command struct {
	route string
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func (s *Shell) table() map[string]command {
	return map[string]command{
		"help":     {usage: "help", help: "list commands", run: s.cmdHelp},
		"quit":     {usage: "quit", help: "leave the shell", run: func(context.Context, []string) error { return ErrQuit }},
		"go":       {usage: "go <path>", help: "open a view", run: s.cmdGo},
		"whoami":   {usage: "whoami", help: "show the current session", run: s.cmdWhoami},
		"login":    {route: guard.LoginPath, usage: "login <email> <password>", help: "sign in", run: s.cmdLogin},
		"register": {route: "/register", usage: "register <name> <email> <password> [role]", help: "create an account", run: s.cmdRegister},
		"logout":   {usage: "logout", help: "sign out", run: s.cmdLogout},

		"medicines": {route: "/", usage: "medicines", help: "list the catalog", run: s.cmdMedicines},
		"search":    {route: "/search", usage: "search <query>", help: "search medicines", run: s.cmdSearch},
		"suggest":   {route: "/", usage: "suggest <text>", help: "type into the search box", run: s.cmdSuggest},

		"cart":     {route: "/cart", usage: "cart", help: "show the cart", run: s.cmdCart},
		"add":      {route: "/cart", usage: "add <medicine-id>", help: "add one unit", run: s.cmdAdd},
		"inc":      {route: "/cart", usage: "inc <medicine-id>", help: "one more unit", run: s.cartStep(s.deps.Cart.Increment)},
		"dec":      {route: "/cart", usage: "dec <medicine-id>", help: "one less unit", run: s.cartStep(s.deps.Cart.Decrement)},
		"remove":   {route: "/cart", usage: "remove <medicine-id>", help: "drop a product", run: s.cartStep(s.deps.Cart.Remove)},
		"qty":      {route: "/cart", usage: "qty <medicine-id> <n>", help: "set quantity", run: s.cmdQty},
		"clear":    {route: "/cart", usage: "clear", help: "empty the cart", run: s.cmdClear},
		"checkout": {route: "/cart", usage: "checkout", help: "place the order", run: s.cmdCheckout},
		"pay":      {route: "/payment-options", usage: "pay <card|upi|cod|netbanking>", help: "confirm payment", run: s.cmdPay},
		"orders":   {route: "/orders", usage: "orders", help: "list my orders", run: s.cmdOrders},

		"med-add":    {route: "/dashboard/pharmacist", usage: "med-add <name> <price> <stock> [expiry]", help: "add a medicine", run: s.cmdMedAdd},
		"med-update": {route: "/dashboard/pharmacist", usage: "med-update <id> field=value...", help: "edit a medicine", run: s.cmdMedUpdate},
		"med-rm":     {route: "/dashboard/pharmacist", usage: "med-rm <id>", help: "delete a medicine", run: s.cmdMedRemove},

		"users":    {route: "/dashboard/admin", usage: "users", help: "list users", run: s.cmdUsers},
		"user-set": {route: "/dashboard/admin", usage: "user-set <id> field=value...", help: "edit a user", run: s.cmdUserSet},
		"user-rm":  {route: "/dashboard/admin", usage: "user-rm <id>", help: "delete a user", run: s.cmdUserRemove},
	}
}

func usage(c string) error {
	return fmt.Errorf("%w: %s", errUsage, c)
}

func (s *Shell) cmdHelp(context.Context, []string) error {
	names := make([]string, 0, len(s.commands))
	for n := range s.commands {
		names = append(names, n)
	}
	slices.Sort(names)

	for _, n := range names {
		c := s.commands[n]
		s.printf("  %-45s %s\n", c.usage, c.help)
	}
	return nil
}

func (s *Shell) cmdGo(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("go <path>")
	}
	if s.enter(ctx, args[0]) {
		s.printf("opened %s\n", s.View())
	}
	return nil
}

func (s *Shell) cmdWhoami(context.Context, []string) error {
	cur, ok := s.deps.Session.Current()
	if !ok {
		s.printf("not logged in\n")
		return nil
	}
	s.printf("%s until %s\n", titleCase(cur.Role.String()), cur.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func (s *Shell) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("login <email> <password>")
	}

	role, err := s.deps.Session.Login(ctx, args[0], args[1])
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.printf("invalid credentials, please try again\n")
			return nil
		}
		return err
	}

	s.printf("welcome, %s\n", titleCase(role.String()))
	s.enter(ctx, guard.DashboardFor(role))
	return nil
}

func (s *Shell) cmdRegister(ctx context.Context, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return usage("register <name> <email> <password> [role]")
	}

	p := auth.Profile{Name: args[0], Email: args[1], Password: args[2]}
	if len(args) == 4 {
		role, err := rbac.ParseRole(args[3])
		if err != nil {
			return err
		}
		p.Role = role
	}

	if err := s.deps.Auth.Register(ctx, p); err != nil {
		return err
	}
	s.printf("registered, you can log in now\n")
	s.setView(guard.LoginPath)
	return nil
}

func (s *Shell) cmdLogout(ctx context.Context, _ []string) error {
	s.deps.Session.Logout(ctx)
	s.setView(guard.LoginPath)
	s.printf("logged out\n")
	return nil
}

func (s *Shell) cmdMedicines(ctx context.Context, _ []string) error {
	meds, err := s.deps.Catalog.List(ctx)
	if err != nil {
		return err
	}
	s.printMedicines(meds)
	return nil
}

func (s *Shell) cmdSearch(ctx context.Context, args []string) error {
	meds, err := s.deps.Catalog.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	s.printMedicines(meds)
	return nil
}

func (s *Shell) cmdSuggest(ctx context.Context, args []string) error {
	s.suggester.Type(ctx, strings.Join(args, " "))
	return nil
}

func (s *Shell) printMedicines(meds []catalog.Medicine) {
	if len(meds) == 0 {
		s.printf("no medicines found\n")
		return
	}
	s.remember(meds)
	for _, m := range meds {
		s.printf("  %-26s %-28s %12s  stock %d\n", m.ID, m.Name, money.Format(m.Price), m.Stock)
	}
}

func (s *Shell) cmdCart(context.Context, []string) error {
	entries := s.deps.Cart.Items()
	if len(entries) == 0 {
		s.printf("your cart is empty\n")
		return nil
	}
	for _, e := range entries {
		s.printf("  %-26s %-28s %3d x %s = %s\n", e.ProductID, e.Name, e.Quantity, money.Format(e.UnitPrice), money.Format(e.Subtotal()))
	}
	s.printf("  total %s\n", money.Format(s.deps.Cart.Total()))
	return nil
}

func (s *Shell) cmdAdd(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("add <medicine-id>")
	}
	m, ok := s.lookup(args[0])
	if !ok {
		s.printf("unknown medicine %s, list or search first\n", args[0])
		return nil
	}
	s.deps.Cart.Add(m.Product())
	s.printf("added %s, cart total %s\n", m.Name, money.Format(s.deps.Cart.Total()))
	return nil
}

func (s *Shell) cartStep(step func(id string) []cart.Entry) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if len(args) != 1 {
			return usage("<medicine-id>")
		}
		step(args[0])
		return s.cmdCart(ctx, nil)
	}
}

func (s *Shell) cmdQty(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("qty <medicine-id> <n>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return usage("qty <medicine-id> <n>")
	}
	s.deps.Cart.SetQuantity(args[0], n)
	return s.cmdCart(ctx, nil)
}

func (s *Shell) cmdClear(context.Context, []string) error {
	s.deps.Cart.Clear()
	s.printf("cart cleared\n")
	return nil
}

func (s *Shell) cmdCheckout(ctx context.Context, _ []string) error {
	if _, ok := s.deps.Session.Current(); !ok {
		s.enter(ctx, "/orders")
		return nil
	}
	userID, ok := s.deps.Session.UserID()
	if !ok {
		s.printf("your session carries no user id, log in again\n")
		return nil
	}

	order := orders.NewOrder(userID, s.deps.Cart.Items())
	placed, err := s.deps.Orders.Place(ctx, order)
	if errors.Is(err, orders.ErrEmptyOrder) {
		s.printf("your cart is empty\n")
		return nil
	}
	if err != nil {
		return err
	}

	s.deps.Cart.Clear()
	s.mu.Lock()
	s.pending = pendingOrder{placed: placed, amount: order.TotalAmount}
	s.mu.Unlock()

	s.setView("/payment-options")
	s.printf("order placed, choose payment: pay <%s>\n", strings.Join(orders.PaymentMethods(), "|"))
	return nil
}

func (s *Shell) cmdPay(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("pay <method>")
	}

	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()
	if !pending.placed.Success {
		s.printf("no order awaiting payment, checkout first\n")
		return nil
	}

	err := s.deps.Orders.ConfirmPayment(ctx, orders.Payment{
		Method:  args[0],
		OrderID: pending.placed.OrderID,
		Amount:  pending.amount,
	})
	if errors.Is(err, orders.ErrPaymentDeclined) {
		s.printf("payment failed, please try again\n")
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.pending = pendingOrder{}
	s.mu.Unlock()

	s.printf("payment successful, your order is being processed\n")
	return nil
}

func (s *Shell) cmdOrders(ctx context.Context, _ []string) error {
	list, err := s.deps.Orders.Mine(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.printf("no orders yet\n")
		return nil
	}
	for _, o := range list {
		s.printf("  %s  %s  %-10s %s\n", o.ID, o.CreatedAt.Local().Format("2006-01-02"), o.Status, money.Format(o.TotalPrice))
		for _, it := range o.Items {
			s.printf("      %-28s %3d x %s\n", it.Name, it.Quantity, money.Format(it.Price))
		}
	}
	return nil
}

func (s *Shell) cmdMedAdd(ctx context.Context, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return usage("med-add <name> <price> <stock> [expiry]")
	}

	m := catalog.Medicine{Name: args[0]}
	if err := applyMedicineField(&m, "price", args[1]); err != nil {
		return err
	}
	if err := applyMedicineField(&m, "stock", args[2]); err != nil {
		return err
	}
	if len(args) == 4 {
		m.ExpiryDate = args[3]
	}

	created, err := s.deps.Catalog.Create(ctx, m)
	if err != nil {
		return err
	}
	s.remember([]catalog.Medicine{created})
	s.printf("medicine added: %s\n", created.ID)
	return nil
}

func (s *Shell) cmdMedUpdate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("med-update <id> field=value...")
	}

	m, ok := s.lookup(args[0])
	if !ok {
		s.printf("unknown medicine %s, list it first\n", args[0])
		return nil
	}
	for _, kv := range args[1:] {
		k, v, found := strings.Cut(kv, "=")
		if !found {
			return usage("med-update <id> field=value...")
		}
		if err := applyMedicineField(&m, k, v); err != nil {
			return err
		}
	}

	updated, err := s.deps.Catalog.Update(ctx, m)
	if err != nil {
		return err
	}
	s.remember([]catalog.Medicine{updated})
	s.printf("medicine updated\n")
	return nil
}

func applyMedicineField(m *catalog.Medicine, field, value string) error {
	switch strings.ToLower(field) {
	case "name":
		m.Name = value
	case "description":
		m.Description = value
	case "price":
		p, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: price %q", catalog.ErrInvalidMedicine, value)
		}
		m.Price = p
	case "stock":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: stock %q", catalog.ErrInvalidMedicine, value)
		}
		m.Stock = n
	case "expiry", "expirydate":
		m.ExpiryDate = value
	case "image":
		m.Image = value
	default:
		return fmt.Errorf("%w: unknown field %q", catalog.ErrInvalidMedicine, field)
	}
	return nil
}

func (s *Shell) cmdMedRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("med-rm <id>")
	}
	if err := s.deps.Catalog.Delete(ctx, args[0]); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.known, args[0])
	s.mu.Unlock()
	s.printf("medicine deleted\n")
	return nil
}

func (s *Shell) cmdUsers(ctx context.Context, _ []string) error {
	list, err := s.deps.Users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range list {
		s.printf("  %-38s %-20s %-28s %s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}

func (s *Shell) cmdUserSet(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("user-set <id> field=value...")
	}

	var u users.Update
	for _, kv := range args[1:] {
		k, v, found := strings.Cut(kv, "=")
		if !found {
			return usage("user-set <id> field=value...")
		}
		switch strings.ToLower(k) {
		case "name":
			u.Name = v
		case "email":
			u.Email = v
		case "role":
			u.Role = rbac.Role(strings.ToLower(v))
		default:
			return fmt.Errorf("%w: unknown field %q", users.ErrInvalidUpdate, k)
		}
	}

	res, err := s.deps.Users.Update(ctx, args[0], u)
	if err != nil {
		return err
	}
	s.printf("%s\n", res.Message)
	return nil
}

func (s *Shell) cmdUserRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("user-rm <id>")
	}
	res, err := s.deps.Users.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	s.printf("%s\n", res.Message)
	return nil
}
