package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/service"
)

var (
	userName  string
	userEmail string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and roles",
}

var userAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Register a user (the first user becomes an admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a user with all their entries (admins only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserRemove,
}

var userRequestAdminCmd = &cobra.Command{
	Use:   "request-admin",
	Short: "Ask the super admin for admin rights",
	Args:  cobra.NoArgs,
	RunE:  runUserRequestAdmin,
}

var userApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Grant a requested admin role (super admin only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserApprove,
}

var userPhotoCmd = &cobra.Command{
	Use:   "photo <id> <file>",
	Short: "Set a profile photo (.jpg, .jpeg or .png)",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserPhoto,
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "Full name")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "Email address")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userRemoveCmd)
	userCmd.AddCommand(userRequestAdminCmd)
	userCmd.AddCommand(userApproveCmd)
	userCmd.AddCommand(userPhotoCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	a := mustOpen("")
	defer a.Close()

	u, err := a.svc.Register(context.Background(), service.UserInput{ID: args[0], FullName: userName, Email: userEmail})
	exitOn(err)
	fmt.Printf("Registered %s (%s)\n", u.ID, u.Role)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	a := mustOpen("")
	defer a.Close()

	users, err := a.svc.ListUsers(context.Background())
	exitOn(err)
	if len(users) == 0 {
		fmt.Println("No users registered. Start with: alog user add <id>")
		return nil
	}
	for _, u := range users {
		flags := ""
		if u.ID == a.cfg.Users.SuperAdmin {
			flags += " super-admin"
		}
		if u.AdminRequested {
			flags += " admin-requested"
		}
		fmt.Printf("%-16s %-24s %-6s %-8s%s\n", u.ID, u.FullName, u.Role, u.Status, flags)
	}
	return nil
}

func runUserRemove(cmd *cobra.Command, args []string) error {
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)
	exitOn(a.svc.RemoveUser(ctx, actor, args[0]))
	fmt.Printf("Removed %s and their entries\n", args[0])
	return nil
}

func runUserRequestAdmin(cmd *cobra.Command, args []string) error {
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)
	if err := a.svc.RequestAdmin(ctx, actor); err != nil {
		return err
	}
	fmt.Println("Admin rights requested. The super admin can approve with: alog user approve " + actor.ID)
	return nil
}

func runUserApprove(cmd *cobra.Command, args []string) error {
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)
	u, err := a.svc.ApproveAdmin(ctx, actor, args[0])
	exitOn(err)
	fmt.Printf("%s is now an %s\n", u.ID, u.Role)
	return nil
}

func runUserPhoto(cmd *cobra.Command, args []string) error {
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)
	u, err := a.svc.SetPhoto(ctx, actor, args[0], args[1])
	exitOn(err)
	fmt.Printf("Profile photo of %s saved to %s\n", u.ID, u.PhotoPath)
	return nil
}
