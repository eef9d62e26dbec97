package main

import (
	"fmt"

	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/service"
	"github.com/spf13/cobra"
)

func newRegisterCmd(get appFunc) *cobra.Command {
	var in service.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			u, err := a.accounts.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "password again")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Address, "address", "", "postal address")
	return cmd
}

func newLoginCmd(get appFunc) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check an account's credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			u, err := a.accounts.Authenticate(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Welcome, %s (%s)\n", u.Name, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newAdminsCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "admins",
		Short: "List administrator accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			users, err := a.accounts.Admins(cmd.Context())
			if err != nil {
				return err
			}
			renderUsers(a.out, "Administrators", users)
			return nil
		},
	}
}

func newBlogCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "List published posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			posts, err := a.blog.Published(cmd.Context())
			if err != nil {
				return err
			}
			renderPosts(a.out, "Published posts", posts)
			return nil
		},
	}

	var in service.PostInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Write a post, a draft unless --status says otherwise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			post, err := a.blog.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderPosts(a.out, "Created", []models.BlogPost{post})
			return nil
		},
	}
	add.Flags().StringVar(&in.Title, "title", "", "title")
	add.Flags().StringVar(&in.Excerpt, "excerpt", "", "short excerpt")
	add.Flags().StringVar(&in.Content, "content", "", "post body")
	add.Flags().StringVar(&in.Category, "category", "", "category")
	add.Flags().StringVar(&in.Author, "author", "", "author")
	add.Flags().StringVar((*string)(&in.Status), "status", "", "draft or published")
	add.Flags().StringSliceVar(&in.Tags, "tag", nil, "tag, repeatable")
	add.Flags().StringVar(&in.FeaturedImage, "image", "", "featured image URL")

	publish := &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			post, err := a.blog.Publish(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderPosts(a.out, "Published", []models.BlogPost{post})
			return nil
		},
	}

	cmd.AddCommand(add, publish)
	return cmd
}

func newOrdersCmd(get appFunc) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List a user's orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			orders, err := a.orders.ForUser(cmd.Context(), userID)
			if err != nil {
				return err
			}
			renderOrders(a.out, "Orders", orders)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "id of the ordering user, empty for guest orders")

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an order to pending, processing, shipped, completed or cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			order, err := a.orders.SetStatus(cmd.Context(), args[0], models.OrderStatus(args[1]))
			if err != nil {
				return err
			}
			renderOrders(a.out, "Updated", []models.Order{order})
			return nil
		},
	}
	cmd.AddCommand(status)
	return cmd
}
